package iconwriter

import (
	"errors"
	"sync"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
)

// Dispatch rasterizes src at size through filter and checks the result.
//
// Filters are supplied by callers, so the output dimensions are verified
// rather than trusted. Failures are not retried: resampling is deterministic.
func Dispatch(filter resample.Filter, src *Source, size int) (*Buffer, error) {
	img, err := src.Rasterize(filter, size)
	if err != nil {
		var (
			invalid *InvalidSizeError
			decode  *DecodeError
		)
		if errors.Is(err, ErrNoFilter) || errors.As(err, &invalid) || errors.As(err, &decode) {
			return nil, err
		}
		return nil, &DecodeError{Err: err}
	}
	if img == nil {
		return nil, &MismatchedDimensionsError{Expected: size}
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		return nil, &MismatchedDimensionsError{Expected: size, Width: b.Dx(), Height: b.Dy()}
	}
	return ToBuffer(img), nil
}

// dispatchAll rasterizes every size concurrently and returns the buffers in
// the order of sizes, or the error of the first size that failed.
func dispatchAll(filter resample.Filter, src *Source, sizes []int) ([]*Buffer, error) {
	var (
		wg      sync.WaitGroup
		buffers = make([]*Buffer, len(sizes))
		errs    = make([]error, len(sizes))
	)
	for ii, size := range sizes {
		wg.Add(1)
		go func(ii, size int) {
			defer wg.Done()
			buffers[ii], errs[ii] = Dispatch(filter, src, size)
		}(ii, size)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return buffers, nil
}
