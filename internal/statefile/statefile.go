// Package statefile stores suspended documents on disk.
//
// A file starts with a four byte magic and a version byte, followed by a
// zstd stream holding the path of the source image and the document state
// written by Photo.SaveState.
package statefile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/photoedit"
	"github.com/gogpu/photoedit/render"
)

const (
	magic   = "PEDS"
	version = 1

	maxPathLen = 1 << 12
)

// ErrFormat is returned for files that are not suspended documents.
var ErrFormat = errors.New("statefile: not a suspended document")

// Write stores p and the path of its source image at path. The file is
// replaced atomically.
func Write(path, source string, p *photoedit.Photo) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, source, p); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	return nil
}

func encode(w io.Writer, source string, p *photoedit.Photo) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	if _, err := enc.Write(binary.AppendUvarint(nil, uint64(len(source)))); err != nil {
		enc.Close()
		return fmt.Errorf("statefile: %w", err)
	}
	if _, err := io.WriteString(enc, source); err != nil {
		enc.Close()
		return fmt.Errorf("statefile: %w", err)
	}
	if err := p.SaveState(enc); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("statefile: %w", err)
	}
	return nil
}

// Read restores the document stored at path into p, uploading it to dev,
// and returns the recorded source path.
func Read(path string, dev render.Device, p *photoedit.Photo) (source string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("statefile: %w", err)
	}
	defer f.Close()
	return decode(f, dev, p)
}

func decode(r io.Reader, dev render.Device, p *photoedit.Photo) (string, error) {
	var header [len(magic) + 1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil || string(header[:len(magic)]) != magic {
		return "", ErrFormat
	}
	if v := header[len(magic)]; v != version {
		return "", fmt.Errorf("%w: version %d", ErrFormat, v)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("statefile: %w", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	n, err := binary.ReadUvarint(br)
	if err == nil && n > maxPathLen {
		err = fmt.Errorf("source path length %d", n)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", photoedit.ErrCorruptState, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", fmt.Errorf("%w: %w", photoedit.ErrCorruptState, err)
	}
	if err := p.RestoreState(dev, br); err != nil {
		return "", err
	}
	return string(buf), nil
}
