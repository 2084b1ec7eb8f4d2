package iconwriter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
)

const square = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>`

func TestDecodeSVG(t *testing.T) {
	src, err := Decode(strings.NewReader(square))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !src.IsVector() {
		t.Fatalf("svg not detected")
	}
	if w, h := src.Dimensions(); w != 10 || h != 10 {
		t.Fatalf("dimensions got=%vx%v, want=10x10", w, h)
	}
	// The filter is not consulted for vector sources.
	for _, size := range []int{16, 33, 512} {
		img, err := Dispatch(nil, src, size)
		if err != nil {
			t.Fatalf("rasterizing at %d: %v", size, err)
		}
		if img.Width() != size || img.Height() != size {
			t.Fatalf("got=%dx%d, want=%dx%d", img.Width(), img.Height(), size, size)
		}
		if got := img.Image().NRGBAAt(size/2, size/2); got != red {
			t.Fatalf("centre pixel at %d got=%v, want=%v", size, got, red)
		}
	}
}

func TestDecodeRaster(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("preparing: %v", err)
	}
	src, err := Decode(buf)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if src.IsVector() {
		t.Fatalf("png detected as svg")
	}
	if w, h := src.Dimensions(); w != 40 || h != 20 {
		t.Fatalf("dimensions got=%vx%v, want=40x20", w, h)
	}
	if _, err := src.Rasterize(nil, 16); err != ErrNoFilter {
		t.Fatalf("got err=%v, want=%v", err, ErrNoFilter)
	}
	var invalid *InvalidSizeError
	if _, err := src.Rasterize(resample.Nearest, 0); !errors.As(err, &invalid) {
		t.Fatalf("got err=%v, want invalid size", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []string{
		"",
		"not an image",
		"<svg><path d=",
	}
	for _, input := range tests {
		_, err := Decode(strings.NewReader(input))
		var decode *DecodeError
		if !errors.As(err, &decode) {
			t.Fatalf("%q: got err=%v, want decode error", input, err)
		}
	}
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatalf("empty image accepted")
	}
}

func TestFromImageCopies(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("wrapping: %v", err)
	}
	img.SetNRGBA(0, 0, red)
	out, err := Dispatch(resample.Nearest, src, 4)
	if err != nil {
		t.Fatalf("dispatching: %v", err)
	}
	if got := out.Image().NRGBAAt(0, 0); got != transparent {
		t.Fatalf("source observed later change: %v", got)
	}
}

func TestBuffer(t *testing.T) {
	if _, err := NewBuffer(2, 2, make([]byte, 15)); err == nil {
		t.Fatalf("short pixel slice accepted")
	}
	pix := make([]byte, 16)
	b, err := NewBuffer(2, 2, pix)
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	pix[0] = 0xFF
	if b.Pix()[0] != 0 {
		t.Fatalf("buffer aliases caller's slice")
	}
	if b.Size() != 2 {
		t.Fatalf("size got=%d", b.Size())
	}
	if wide, _ := NewBuffer(2, 1, make([]byte, 8)); wide.Size() != 0 {
		t.Fatalf("non-square size got=%d, want 0", wide.Size())
	}
}
