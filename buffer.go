package iconwriter

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Buffer is an immutable, non-premultiplied RGBA raster.
//
// Pixels are stored row-major, 4 bytes per pixel, with no padding between
// rows.
type Buffer struct {
	width  int
	height int
	pix    []byte
}

// NewBuffer validates pix against the given dimensions and takes a private
// copy of it.
func NewBuffer(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("iconwriter: bad buffer dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("iconwriter: buffer %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pix))
	}
	cp := make([]byte, len(pix))
	copy(cp, pix)
	return &Buffer{width: width, height: height, pix: cp}, nil
}

// ToBuffer converts any image into a Buffer anchored at the origin.
func ToBuffer(img image.Image) *Buffer {
	b := img.Bounds()
	if m, ok := img.(*image.NRGBA); ok && m.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		pix := make([]byte, len(m.Pix[:4*b.Dx()*b.Dy()]))
		copy(pix, m.Pix)
		return &Buffer{width: b.Dx(), height: b.Dy(), pix: pix}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Buffer{width: b.Dx(), height: b.Dy(), pix: dst.Pix}
}

// Width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height in pixels.
func (b *Buffer) Height() int { return b.height }

// Size is the edge length of a square buffer, or 0 if the buffer is not
// square.
func (b *Buffer) Size() int {
	if b.width != b.height {
		return 0
	}
	return b.width
}

// Pix exposes the underlying bytes. Callers must not modify them.
func (b *Buffer) Pix() []byte { return b.pix }

// Image returns a copy of the buffer as an *image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}
