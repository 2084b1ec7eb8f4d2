package iconwriter

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"git.sr.ht/~jackmordaunt/iconwriter/ico"
)

// ICOMaxSize is the largest edge length an ICO directory can describe.
const ICOMaxSize = 256

// ICO encodes entries as a Windows .ico file.
//
// Images smaller than PNGThreshold are stored as uncompressed 32-bit bitmaps,
// larger ones as embedded PNG. The zero value uses PNG for 256×256 only.
type ICO struct {
	PNGThreshold int
}

func (enc ICO) threshold() int {
	if enc.PNGThreshold <= 0 {
		return ICOMaxSize
	}
	return enc.PNGThreshold
}

// Encode writes the directory in insertion order followed by the payloads.
func (enc ICO) Encode(w io.Writer, entries []Entry) error {
	all := images(entries)
	if len(all) == 0 {
		return ErrEmptyIcon
	}
	payloads := make([]ico.Image, 0, len(all))
	for _, img := range all {
		size := img.Size()
		if size <= 0 || size > ICOMaxSize {
			return &UnsupportedIconTypeError{Format: FormatICO, Size: img.Width()}
		}
		data, err := enc.payload(img)
		if err != nil {
			return fmt.Errorf("encoding %dx%d: %w", size, size, err)
		}
		payloads = append(payloads, ico.Image{
			Width:  size,
			Height: size,
			BPP:    32,
			Data:   data,
		})
	}
	ew := &errWriter{w: w}
	if err := ico.Write(ew, payloads); err != nil {
		if ew.err != nil {
			return ew.err
		}
		return err
	}
	return nil
}

func (enc ICO) payload(img *Buffer) ([]byte, error) {
	if img.Size() >= enc.threshold() {
		return encodePNG(img)
	}
	return ico.EncodeDIB(img.Width(), img.Height(), img.Pix())
}

// encodePNG is shared by every encoder embedding PNG payloads.
func encodePNG(img *Buffer) ([]byte, error) {
	var (
		buf = bytes.NewBuffer(nil)
		enc = png.Encoder{CompressionLevel: png.BestCompression}
	)
	if err := enc.Encode(buf, img.Image()); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
