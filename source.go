package iconwriter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is original artwork: either a decoded raster image or an SVG
// document.
//
// A Source is immutable, so Rasterize may be called from several goroutines at
// once.
type Source struct {
	raster image.Image
	svg    []byte
}

// FromImage wraps an already decoded raster image. The pixels are copied so
// later changes to img are not observed.
func FromImage(img image.Image) (*Source, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &DecodeError{Err: errors.New("empty image")}
	}
	return &Source{raster: ToBuffer(img).Image()}, nil
}

// ParseSVG wraps an SVG document. The document is parsed once up front so
// that malformed input fails here rather than at rasterization.
func ParseSVG(r io.Reader) (*Source, error) {
	doc, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("reading svg: %w", err)}
	}
	if _, err := oksvg.ReadIconStream(bytes.NewReader(doc)); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("parsing svg: %w", err)}
	}
	return &Source{svg: doc}, nil
}

// Decode reads artwork in any of the supported formats: PNG, JPEG, GIF, BMP,
// TIFF, WEBP or SVG.
func Decode(r io.Reader) (*Source, error) {
	by, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("reading source: %w", err)}
	}
	if isSVG(by) {
		return ParseSVG(bytes.NewReader(by))
	}
	img, _, err := image.Decode(bytes.NewReader(by))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &Source{raster: img}, nil
}

// Open decodes the artwork stored at path.
func Open(path string) (*Source, error) {
	by, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := Decode(bytes.NewReader(by))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// isSVG sniffs for an XML or SVG prelude after any leading whitespace.
func isSVG(by []byte) bool {
	head := bytes.TrimLeft(by, " \t\r\n\xef\xbb\xbf")
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<!--"))) && bytes.Contains(by, []byte("<svg"))
}

// IsVector reports whether the source is an SVG document.
func (s *Source) IsVector() bool { return s.svg != nil }

// Dimensions of the original artwork. For SVG this is the view box.
func (s *Source) Dimensions() (w, h float64) {
	if s.svg != nil {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(s.svg))
		if err != nil {
			return 0, 0
		}
		return icon.ViewBox.W, icon.ViewBox.H
	}
	b := s.raster.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Rasterize produces the artwork at size×size. Raster sources are scaled by
// filter; SVG sources are rendered directly at the target size and ignore it.
func (s *Source) Rasterize(filter resample.Filter, size int) (image.Image, error) {
	if size <= 0 {
		return nil, &InvalidSizeError{Size: size, Reason: "size must be positive"}
	}
	if s.svg != nil {
		return s.renderSVG(size)
	}
	if filter == nil {
		return nil, ErrNoFilter
	}
	return filter.Resize(s.raster, size)
}

// renderSVG parses the document afresh since oksvg icons are mutated by
// SetTarget.
func (s *Source) renderSVG(size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(s.svg))
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("parsing svg: %w", err)}
	}
	icon.SetTarget(0, 0, float64(size), float64(size))
	var (
		rgba    = image.NewRGBA(image.Rect(0, 0, size, size))
		scanner = rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
		dasher  = rasterx.NewDasher(size, size, scanner)
	)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}
