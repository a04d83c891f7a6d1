package photoedit

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/photoedit/internal/imageio"
	"github.com/gogpu/photoedit/render"
)

// SaveState writes the complete document to w: the source pixels, and for
// each group its flags, effects with their stored parameter values, and
// selection mask. RestoreState reads it back.
//
// All numbers are little-endian. Strings carry a uvarint length prefix.
func (p *Photo) SaveState(w io.Writer) error {
	if p.pixels == nil {
		return ErrNoImage
	}
	sw := stateWriter{w: bufio.NewWriter(w)}

	sw.int32(int32(p.format))
	sw.bytes(p.pixels)
	sw.float32(float32(p.size.X))
	sw.float32(float32(p.size.Y))

	sw.int32(int32(len(p.groups)))
	for _, g := range p.groups {
		sw.bool(g.enabled)
		sw.int32(int32(len(g.effects)))
		for _, e := range g.effects {
			writeEffect(&sw, e)
		}
		sw.bytes(g.region.current)
		sw.int32(int32(g.region.expand))
		sw.float32(g.region.feather)
	}

	if sw.err == nil {
		sw.err = sw.w.Flush()
	}
	if sw.err != nil {
		return fmt.Errorf("%w: save state: %w", ErrIO, sw.err)
	}
	return nil
}

func writeEffect(sw *stateWriter, e *Effect) {
	keys := make([]paramKey, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b paramKey) int { return strings.Compare(a.String(), b.String()) })

	sw.bool(e.enabled)
	sw.int32(int32(e.kind))
	sw.int32(int32(len(keys)))
	for _, k := range keys {
		v := e.values[k]
		sw.string(k.String())
		sw.string(v.kind.String())
		sw.value(v)
	}
}

// RestoreState replaces the document with one written by SaveState and
// uploads its pixels and masks to dev. The whole stream is decoded before
// anything changes; on error the photo is left as it was.
func (p *Photo) RestoreState(dev render.Device, r io.Reader) error {
	src, groups, err := readState(bufio.NewReader(r))
	if err != nil {
		return err
	}
	if err := p.recreateResources(dev, src, groups); err != nil {
		return err
	}
	for _, g := range p.groups {
		if !slices.Contains(groups, g) {
			g.photo = nil
		}
	}
	p.groups = groups
	p.active = -1
	p.selected = nil

	p.logger().Info("photoedit: state restored", "width", src.size.X, "height", src.size.Y, "groups", len(groups))
	p.emit(Change{Source: p, Property: "Groups", Op: Reset})
	return nil
}

func readState(br *bufio.Reader) (sourcePixels, []*EditGroup, error) {
	sr := stateReader{r: br}
	var src sourcePixels

	src.format = gputypes.TextureFormat(sr.int32())
	src.pix = sr.bytes()
	src.size = image.Pt(int(sr.float32()), int(sr.float32()))
	if sr.err != nil {
		return src, nil, corrupt(sr.err)
	}
	bpp, err := imageio.BytesPerPixel(src.format)
	if err != nil || bpp != 4 {
		return src, nil, corrupt(fmt.Errorf("source pixel format %v", src.format))
	}
	if src.size.X <= 0 || src.size.Y <= 0 || len(src.pix) != src.size.X*src.size.Y*bpp {
		return src, nil, corrupt(fmt.Errorf("%d source bytes for %dx%d pixels", len(src.pix), src.size.X, src.size.Y))
	}

	n := sr.count()
	var groups []*EditGroup
	for i := 0; i < n && sr.err == nil; i++ {
		g := newEditGroup(nil)
		g.enabled = sr.bool()
		effects := sr.count()
		for j := 0; j < effects && sr.err == nil; j++ {
			e := readEffect(&sr)
			e.group = g
			g.effects = append(g.effects, e)
		}
		mask := sr.bytes()
		if len(mask) == 0 {
			mask = nil
		} else if len(mask) != src.size.X*src.size.Y && sr.err == nil {
			sr.err = fmt.Errorf("group %d: %d mask bytes for %dx%d pixels", i, len(mask), src.size.X, src.size.Y)
		}
		g.region.restore(mask)
		g.region.expand = int(sr.int32())
		g.region.feather = max(sr.float32(), 0)
		groups = append(groups, g)
	}
	if sr.err != nil {
		return src, nil, corrupt(sr.err)
	}
	return src, groups, nil
}

func readEffect(sr *stateReader) *Effect {
	enabled := sr.bool()
	kind := EffectKind(sr.int32())
	if sr.err == nil && !kind.valid() {
		sr.err = fmt.Errorf("%w: %d", ErrUnknownKind, int32(kind))
	}
	e := NewEffect(kind)
	e.enabled = enabled

	n := sr.count()
	for i := 0; i < n && sr.err == nil; i++ {
		name := sr.string()
		tag := sr.string()
		if sr.err != nil {
			break
		}
		key, err := parseParamKey(name)
		if err != nil {
			sr.err = err
			break
		}
		vk, ok := parseValueKind(tag)
		if !ok {
			sr.err = fmt.Errorf("%w: value type %q", ErrUnsupported, tag)
			break
		}
		e.values[key] = sr.value(vk)
	}
	return e
}

func parseParamKey(s string) (paramKey, error) {
	kindName, name, ok := strings.Cut(s, ".")
	if !ok || name == "" {
		return paramKey{}, fmt.Errorf("parameter key %q", s)
	}
	kind, err := ParseEffectKind(kindName)
	if err != nil {
		return paramKey{}, err
	}
	return paramKey{kind, name}, nil
}

func corrupt(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrCorruptState, err)
}

// stateWriter keeps the first write error.
type stateWriter struct {
	w   *bufio.Writer
	err error
	buf [8]byte
}

func (sw *stateWriter) write(b []byte) {
	if sw.err == nil {
		_, sw.err = sw.w.Write(b)
	}
}

func (sw *stateWriter) int32(v int32) {
	binary.LittleEndian.PutUint32(sw.buf[:4], uint32(v))
	sw.write(sw.buf[:4])
}

func (sw *stateWriter) float32(v float32) {
	binary.LittleEndian.PutUint32(sw.buf[:4], math.Float32bits(v))
	sw.write(sw.buf[:4])
}

func (sw *stateWriter) float64(v float64) {
	binary.LittleEndian.PutUint64(sw.buf[:8], math.Float64bits(v))
	sw.write(sw.buf[:8])
}

func (sw *stateWriter) bool(v bool) {
	sw.buf[0] = 0
	if v {
		sw.buf[0] = 1
	}
	sw.write(sw.buf[:1])
}

func (sw *stateWriter) bytes(b []byte) {
	sw.int32(int32(len(b)))
	sw.write(b)
}

func (sw *stateWriter) string(s string) {
	sw.write(binary.AppendUvarint(sw.buf[:0], uint64(len(s))))
	sw.write([]byte(s))
}

func (sw *stateWriter) value(v Value) {
	switch v.kind {
	case ValueFloat:
		sw.float32(v.f)
	case ValueInt:
		sw.int32(v.i)
	case ValueBool:
		sw.bool(v.b)
	case ValueColor:
		sw.write([]byte{v.c.R, v.c.G, v.c.B, v.c.A})
	case ValueRect:
		sw.float64(v.r.X)
		sw.float64(v.r.Y)
		sw.float64(v.r.W)
		sw.float64(v.r.H)
	}
}

// stateReader keeps the first read error and returns zero values after it.
type stateReader struct {
	r   *bufio.Reader
	err error
	buf [8]byte
}

func (sr *stateReader) read(n int) []byte {
	if sr.err != nil {
		clear(sr.buf[:n])
		return sr.buf[:n]
	}
	_, sr.err = io.ReadFull(sr.r, sr.buf[:n])
	return sr.buf[:n]
}

func (sr *stateReader) int32() int32 {
	return int32(binary.LittleEndian.Uint32(sr.read(4)))
}

func (sr *stateReader) float32() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(sr.read(4)))
}

func (sr *stateReader) float64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(sr.read(8)))
}

func (sr *stateReader) bool() bool {
	b := sr.read(1)[0]
	if b > 1 && sr.err == nil {
		sr.err = fmt.Errorf("bool byte %#x", b)
	}
	return b == 1
}

// count reads a non-negative int32 element count.
func (sr *stateReader) count() int {
	n := sr.int32()
	if n < 0 && sr.err == nil {
		sr.err = fmt.Errorf("negative count %d", n)
	}
	return int(max(n, 0))
}

// bytes reads a length-prefixed buffer. The buffer grows as data arrives,
// so a corrupt length cannot force a large allocation.
func (sr *stateReader) bytes() []byte {
	n := sr.count()
	if sr.err != nil || n == 0 {
		return nil
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(sr.r, int64(n))); err != nil {
		sr.err = err
		return nil
	}
	if buf.Len() != n {
		sr.err = io.ErrUnexpectedEOF
		return nil
	}
	return buf.Bytes()
}

func (sr *stateReader) string() string {
	if sr.err != nil {
		return ""
	}
	n, err := binary.ReadUvarint(sr.r)
	if err != nil {
		sr.err = err
		return ""
	}
	if n > 1<<16 {
		sr.err = fmt.Errorf("string length %d", n)
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(sr.r, b); err != nil {
		sr.err = err
		return ""
	}
	return string(b)
}

func (sr *stateReader) value(kind ValueKind) Value {
	switch kind {
	case ValueFloat:
		return FloatValue(sr.float32())
	case ValueInt:
		return IntValue(sr.int32())
	case ValueBool:
		return BoolValue(sr.bool())
	case ValueColor:
		c := sr.read(4)
		return ColorValue(color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
	default:
		return RectValue(Rect{X: sr.float64(), Y: sr.float64(), W: sr.float64(), H: sr.float64()})
	}
}
