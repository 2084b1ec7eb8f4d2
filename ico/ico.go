// Package ico implements the wire structures of the Windows ICO format.
//
// See https://en.wikipedia.org/wiki/ICO_(file_format).
package ico

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrBadHeader = errors.New("ico: bad header")
	ErrTooMany   = errors.New("ico: too many images")
	ErrBadDIB    = errors.New("ico: bad bitmap data")
)

const (
	// HeaderSize is the size of Header on the wire.
	HeaderSize = 6
	// DescriptorSize is the size of Descriptor on the wire.
	DescriptorSize = 16
	// InfoHeaderSize is the size of a BITMAPINFOHEADER.
	InfoHeaderSize = 40
)

// Header is the ICONDIR at the start of every file.
type Header struct {
	Reserved   uint16
	ImageType  uint16 // 1 for icons
	ImageCount uint16
}

// Descriptor is an ICONDIRENTRY.
type Descriptor struct {
	Width    uint8 // 0 means 256
	Height   uint8 // 0 means 256
	Colors   uint8
	Reserved uint8
	Planes   uint16
	BPP      uint16
	Size     uint32
	Offset   uint32
}

// Dimensions resolves the 0 means 256 convention.
func (d Descriptor) Dimensions() (w, h int) {
	w, h = int(d.Width), int(d.Height)
	if w == 0 {
		w = 256
	}
	if h == 0 {
		h = 256
	}
	return w, h
}

// Image is a single payload with the dimensions to put in its descriptor.
type Image struct {
	Width  int
	Height int
	BPP    uint16
	Data   []byte
}

// dimension encodes an edge length, 256 being stored as 0.
func dimension(n int) uint8 {
	if n >= 256 {
		return 0
	}
	return uint8(n)
}

// Write emits the header, one descriptor per image and the payloads, in
// order. Offsets are a running total from the end of the directory.
func Write(dst io.Writer, images []Image) error {
	if len(images) > 0xFFFF {
		return ErrTooMany
	}
	if err := binary.Write(dst, binary.LittleEndian, Header{
		ImageType:  1,
		ImageCount: uint16(len(images)),
	}); err != nil {
		return fmt.Errorf("writing ico header: %w", err)
	}
	offset := uint32(HeaderSize + DescriptorSize*len(images))
	for _, img := range images {
		d := Descriptor{
			Width:  dimension(img.Width),
			Height: dimension(img.Height),
			Planes: 1,
			BPP:    img.BPP,
			Size:   uint32(len(img.Data)),
			Offset: offset,
		}
		if err := binary.Write(dst, binary.LittleEndian, d); err != nil {
			return fmt.Errorf("writing icon headers: %w", err)
		}
		offset += d.Size
	}
	for _, img := range images {
		if _, err := dst.Write(img.Data); err != nil {
			return fmt.Errorf("writing icon data: %w", err)
		}
	}
	return nil
}

// DecodeDirectory reads the header and descriptors from r.
func DecodeDirectory(r io.Reader) (Header, []Descriptor, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, nil, fmt.Errorf("reading ico header: %w", err)
	}
	if h.Reserved != 0 || h.ImageType != 1 {
		return h, nil, ErrBadHeader
	}
	entries := make([]Descriptor, h.ImageCount)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return h, nil, fmt.Errorf("reading icon headers: %w", err)
	}
	return h, entries, nil
}
