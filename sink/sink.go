// Package sink provides destinations for encoded icons: single streams and
// collections of named blobs (directories and archives).
package sink

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/kdomanski/iso9660"

	"git.sr.ht/~jackmordaunt/iconwriter/internal/util"
)

// Sink accepts named blobs.
type Sink interface {
	Put(name string, data []byte) error
}

// Create opens path for writing, creating parent directories as needed and
// truncating an existing file.
func Create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, fmt.Errorf("preparing %q: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", path, err)
	}
	return f, nil
}

// cleanName rejects names that would escape the sink's root.
func cleanName(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("sink: bad blob name %q", name)
	}
	return clean, nil
}

// Dir writes each blob as a file below Root.
type Dir struct {
	Root string
}

func (d Dir) Put(name string, data []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	dst := filepath.Join(d.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return fmt.Errorf("preparing %q: %w", filepath.Dir(dst), err)
	}
	if err := ioutil.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("writing %q: %w", dst, err)
	}
	return nil
}

// Memory keeps blobs in insertion order.
type Memory struct {
	Names []string
	Blobs map[string][]byte
}

func (m *Memory) Put(name string, data []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if m.Blobs == nil {
		m.Blobs = make(map[string][]byte)
	}
	if _, ok := m.Blobs[name]; ok {
		return fmt.Errorf("sink: duplicate blob %q", name)
	}
	m.Names = append(m.Names, name)
	m.Blobs[name] = append([]byte(nil), data...)
	return nil
}

// Tar streams blobs into a tar archive.
type Tar struct {
	tw *tar.Writer
	// ModTime stamps every header. The zero time keeps output reproducible.
	ModTime time.Time
}

// NewTar writes a tar archive to w. Close must be called to finish it.
func NewTar(w io.Writer) *Tar {
	return &Tar{tw: tar.NewWriter(w)}
}

func (t *Tar) Put(name string, data []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  t.ModTime,
		Format:   tar.FormatPAX,
	}); err != nil {
		return fmt.Errorf("writing tar header for %q: %w", name, err)
	}
	if _, err := t.tw.Write(data); err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	return nil
}

// Close writes the tar trailer. It does not close the underlying writer.
func (t *Tar) Close() error {
	if err := t.tw.Close(); err != nil {
		return fmt.Errorf("closing tar: %w", err)
	}
	return nil
}

// ISO collects blobs into an ISO 9660 image, written out by Close.
type ISO struct {
	w      io.Writer
	volume string
	iw     *iso9660.ImageWriter
}

// NewISO prepares an image with the given volume identifier.
func NewISO(w io.Writer, volume string) (*ISO, error) {
	if volume == "" {
		volume = "unspecified"
	}
	iw, err := iso9660.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("initialising writer: %w", err)
	}
	return &ISO{w: w, volume: volume, iw: iw}, nil
}

func (s *ISO) Put(name string, data []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := s.iw.AddFile(bytes.NewReader(data), name); err != nil {
		return fmt.Errorf("adding file %s: %w", name, err)
	}
	return nil
}

// Close writes the image and releases the writer's staging area.
func (s *ISO) Close() error {
	var errs util.MultiError
	if err := s.iw.WriteTo(s.w, s.volume); err != nil {
		errs.Append(fmt.Errorf("writing ISO image: %w", err))
	}
	if err := s.iw.Cleanup(); err != nil {
		errs.Append(fmt.Errorf("cleaning up: %w", err))
	}
	return errs.Err()
}
