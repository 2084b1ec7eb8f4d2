package iconwriter

import (
	"fmt"
	"io"

	jicns "github.com/jackmordaunt/icns"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
)

// ConvertMaxSize is the size artwork is rendered at before ConvertICNS hands
// it over.
const ConvertMaxSize = 1024

// ConvertICNS renders src once at ConvertMaxSize and lets
// github.com/jackmordaunt/icns derive every icon type it supports from that
// single image. Unlike the ICNS encoder there is no control over sizes or
// types.
func ConvertICNS(w io.Writer, src *Source, filter resample.Filter) error {
	img, err := Dispatch(filter, src, ConvertMaxSize)
	if err != nil {
		return fmt.Errorf("rasterizing source: %w", err)
	}
	ew := &errWriter{w: w}
	if err := jicns.Encode(ew, img.Image()); err != nil {
		if ew.err != nil {
			return ew.err
		}
		return fmt.Errorf("encoding icns: %w", err)
	}
	return nil
}
