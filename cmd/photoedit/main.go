// Command photoedit applies an edit recipe to a photo.
//
//	photoedit -in beach.jpg -recipe warm.yaml -out beach-warm.png
//	photoedit -resume beach.peds -out beach.jpg
//	photoedit -list
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gogpu/photoedit"
	"github.com/gogpu/photoedit/cache"
	"github.com/gogpu/photoedit/internal/imageio"
	"github.com/gogpu/photoedit/internal/recipe"
	"github.com/gogpu/photoedit/internal/statefile"
	"github.com/gogpu/photoedit/render"
)

type config struct {
	in, out, recipe string
	resume, suspend string
	overlay         string
	dumpRecipe      bool
	list            bool
	debug           bool
	quality         int
	maxTexture      uint
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "source image")
	flag.StringVar(&cfg.out, "out", "", "output image; format follows the extension")
	flag.StringVar(&cfg.recipe, "recipe", "", "YAML edit recipe to apply")
	flag.StringVar(&cfg.resume, "resume", "", "restore a suspended document instead of reading -in")
	flag.StringVar(&cfg.suspend, "suspend", "", "write the document to a suspend file")
	flag.StringVar(&cfg.overlay, "overlay", "", "write the image with the selection of the last masked group shown")
	flag.BoolVar(&cfg.dumpRecipe, "dump-recipe", false, "print the document as a recipe")
	flag.BoolVar(&cfg.list, "list", false, "list the effect catalog and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.IntVar(&cfg.quality, "quality", imageio.DefaultJPEGQuality, "JPEG quality")
	flag.UintVar(&cfg.maxTexture, "max-texture", render.DefaultMaxTextureSize, "largest image dimension accepted")
	flag.Parse()

	logger := initLogger(cfg.debug)
	if cfg.list {
		listCatalog(os.Stdout)
		return
	}
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("photoedit failed")
	}
}

// initLogger logs text in debug mode and JSON otherwise. In debug mode the
// library logs through it as well.
func initLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		photoedit.SetLogger(slog.New(slog.NewTextHandler(logger.Writer(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		logger.Debug("debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
	return logger
}

func run(cfg config, logger *logrus.Logger) error {
	dev := render.NewSoftwareDevice(
		render.WithMaxTextureSize(uint32(cfg.maxTexture)),
		render.WithDeviceName("photoedit-cli"),
	)
	p := photoedit.New(photoedit.WithJPEGQuality(cfg.quality))

	source := cfg.in
	switch {
	case cfg.resume != "":
		from, err := statefile.Read(cfg.resume, dev, p)
		if err != nil {
			return err
		}
		if source == "" {
			source = from
		}
		logger.WithFields(logrus.Fields{"file": cfg.resume, "source": from}).Info("resumed document")
	case cfg.in != "":
		if err := load(p, dev, cfg.in); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"file": cfg.in, "width": p.Size().X, "height": p.Size().Y}).Info("loaded image")
	default:
		return errors.New("one of -in or -resume is required")
	}

	if cfg.recipe != "" {
		if err := applyRecipe(p, cfg.recipe); err != nil {
			return err
		}
		for i, g := range p.Groups() {
			logger.WithFields(logrus.Fields{
				"group":   i,
				"id":      g.ID(),
				"effects": len(g.Effects()),
				"masked":  g.Region().HasMask(),
				"enabled": g.Enabled(),
			}).Debug("group")
		}
	}

	if cfg.dumpRecipe {
		if err := recipe.Capture(p).Encode(os.Stdout); err != nil {
			return err
		}
	}
	if cfg.out != "" {
		if err := p.SaveFile(cfg.out); err != nil {
			return reportSaveError(err)
		}
		logger.WithField("file", cfg.out).Info("saved image")
	}
	if cfg.overlay != "" {
		if err := writeOverlay(p, cfg.overlay); err != nil {
			return err
		}
		logger.WithField("file", cfg.overlay).Info("saved selection overlay")
	}
	if cfg.suspend != "" {
		if err := statefile.Write(cfg.suspend, source, p); err != nil {
			return err
		}
		logger.WithField("file", cfg.suspend).Info("suspended document")
	}
	return nil
}

func load(p *photoedit.Photo, dev render.Device, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := p.Load(dev, bytes.NewReader(data)); err != nil {
		var de *photoedit.DecodeError
		if errors.As(err, &de) && de.Limit > 0 {
			return fmt.Errorf("%s is %dx%d pixels; this device handles at most %d pixels per side",
				path, de.Width, de.Height, de.Limit)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func applyRecipe(p *photoedit.Photo, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rc, err := recipe.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return rc.Apply(p)
}

func reportSaveError(err error) error {
	if photoedit.IsDeviceLost(err) {
		return fmt.Errorf("rendering device lost while saving: %w", err)
	}
	return fmt.Errorf("could not save image: %w", err)
}

// writeOverlay renders the edited image with the selection display of
// the last masked group on top.
func writeOverlay(p *photoedit.Photo, path string) error {
	var masked *photoedit.EditGroup
	for _, g := range p.Groups() {
		if g.Region().HasMask() {
			masked = g
		}
	}
	if masked == nil {
		return errors.New("-overlay: no group has a selection")
	}
	masked.SetEditingRegion(true)
	defer masked.SetEditingRegion(false)

	dev := p.Device()
	images := cache.NewRenderCache[uint64]()
	img, ok := images.Get(p.Revision())
	if !ok {
		var err error
		if img, err = images.Put(dev, p.Image(), p.Revision()); err != nil {
			return err
		}
	}
	if display := masked.RegionDisplay(1, false); display != nil {
		img = render.Composite(render.SourceOver, img, display)
	}
	pix, err := dev.Rasterize(img, p.Image().Bounds())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dev.Encode(f, pix, render.FormatFromPath(path), imageio.DefaultJPEGQuality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listCatalog(w io.Writer) {
	for _, k := range photoedit.Kinds() {
		entry, _ := photoedit.Catalog(k)
		fmt.Fprintf(w, "%s (%s)\n", k, k.DisplayName())
		for _, p := range entry.Parameters {
			var rng string
			if p.Type == photoedit.ValueFloat || p.Type == photoedit.ValueInt {
				rng = fmt.Sprintf(" [%g, %g]", p.Min, p.Max)
			}
			fmt.Fprintf(w, "  %-16s %-8s default %v%s\n", p.Name, strings.ToLower(p.Type.String()), p.Default, rng)
		}
	}
}
