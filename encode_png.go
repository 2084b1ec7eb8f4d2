package iconwriter

import (
	"fmt"
	"io"

	"git.sr.ht/~jackmordaunt/iconwriter/sink"
)

// PNGSequence encodes every image as a standalone PNG named after its entry
// key.
//
// As a stream (Encode) the blobs are packed into a tar archive; through
// EncodeBlobs they are handed to a sink one by one; Bundle concatenates them
// and returns a manifest.
type PNGSequence struct{}

// Blob is one named PNG.
type Blob struct {
	Name string
	Key  Key
	Size int
	Data []byte
}

// Blobs encodes each image of entries in insertion order.
func (PNGSequence) Blobs(entries []Entry) ([]Blob, error) {
	var (
		blobs []Blob
		names = make(map[string]Key)
	)
	for _, e := range entries {
		for _, img := range e.Images {
			size := img.Size()
			if size <= 0 {
				return nil, &UnsupportedIconTypeError{Format: FormatPNGSequence, Size: img.Width()}
			}
			name := e.Key.Name(size)
			if prev, ok := names[name]; ok {
				return nil, fmt.Errorf("%q and %q both name %q: %w", prev, e.Key, name, &KeyAlreadyIncludedError{Key: e.Key})
			}
			names[name] = e.Key
			data, err := encodePNG(img)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", name, err)
			}
			blobs = append(blobs, Blob{Name: name, Key: e.Key, Size: size, Data: data})
		}
	}
	if len(blobs) == 0 {
		return nil, ErrEmptyIcon
	}
	return blobs, nil
}

// EncodeBlobs hands each PNG to s.
func (enc PNGSequence) EncodeBlobs(s sink.Sink, entries []Entry) error {
	blobs, err := enc.Blobs(entries)
	if err != nil {
		return err
	}
	for _, b := range blobs {
		if err := s.Put(b.Name, b.Data); err != nil {
			return &IOError{Op: "storing " + b.Name, Err: err}
		}
	}
	return nil
}

// Encode writes the sequence as a tar archive.
func (enc PNGSequence) Encode(w io.Writer, entries []Entry) error {
	ew := &errWriter{w: w}
	tw := sink.NewTar(ew)
	if err := enc.EncodeBlobs(tw, entries); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		if ew.err != nil {
			return ew.err
		}
		return &IOError{Op: "finishing archive", Err: err}
	}
	return nil
}

// ManifestEntry locates one PNG inside a bundle.
type ManifestEntry struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
}

// Bundle writes the PNGs back to back and reports where each one landed.
func (enc PNGSequence) Bundle(w io.Writer, entries []Entry) ([]ManifestEntry, error) {
	blobs, err := enc.Blobs(entries)
	if err != nil {
		return nil, err
	}
	var (
		ew       = &errWriter{w: w}
		manifest = make([]ManifestEntry, 0, len(blobs))
	)
	for _, b := range blobs {
		offset := ew.n
		if _, err := ew.Write(b.Data); err != nil {
			return nil, err
		}
		manifest = append(manifest, ManifestEntry{
			Name:   b.Name,
			Size:   b.Size,
			Offset: offset,
			Length: int64(len(b.Data)),
		})
	}
	return manifest, nil
}
