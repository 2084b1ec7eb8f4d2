// Package resample provides the resampling filters used to scale source
// artwork to icon sizes.
//
// A filter is a pure function of its inputs: the same source and size always
// produce the same pixels.
package resample

import (
	"errors"
	"image"
	"sort"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// ErrBadSource is returned for nil or empty source images.
var ErrBadSource = errors.New("resample: bad source image")

// Filter scales src to a size×size image.
type Filter interface {
	Resize(src image.Image, size int) (image.Image, error)
}

// Func adapts an ordinary function to the Filter interface.
type Func func(src image.Image, size int) (image.Image, error)

func (f Func) Resize(src image.Image, size int) (image.Image, error) {
	return f(src, size)
}

// Scaler returns a filter backed by an x/image/draw interpolator.
func Scaler(s draw.Scaler) Filter {
	return Func(func(src image.Image, size int) (image.Image, error) {
		if err := check(src, size); err != nil {
			return nil, err
		}
		var (
			rect = image.Rect(0, 0, size, size)
			dst  = image.NewNRGBA(rect)
		)
		s.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
		return dst, nil
	})
}

// Interpolation returns a filter backed by an nfnt/resize interpolation
// function.
func Interpolation(fn resize.InterpolationFunction) Filter {
	return Func(func(src image.Image, size int) (image.Image, error) {
		if err := check(src, size); err != nil {
			return nil, err
		}
		return resize.Resize(uint(size), uint(size), src, fn), nil
	})
}

func check(src image.Image, size int) error {
	if src == nil || src.Bounds().Empty() || size <= 0 {
		return ErrBadSource
	}
	return nil
}

var (
	Nearest  = Scaler(draw.NearestNeighbor)
	Linear   = Scaler(draw.BiLinear)
	Approx   = Scaler(draw.ApproxBiLinear)
	Cubic    = Scaler(draw.CatmullRom)
	Lanczos  = Interpolation(resize.Lanczos3)
	Mitchell = Interpolation(resize.MitchellNetravali)
)

var presets = map[string]Filter{
	"nearest":  Nearest,
	"linear":   Linear,
	"approx":   Approx,
	"cubic":    Cubic,
	"lanczos":  Lanczos,
	"mitchell": Mitchell,
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Filter, bool) {
	f, ok := presets[name]
	return f, ok
}

// Names lists the preset names in lexical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
