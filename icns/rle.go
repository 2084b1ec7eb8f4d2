package icns

import "errors"

// ErrBadRLE is returned for truncated or overlong run-length data.
var ErrBadRLE = errors.New("icns: bad run-length data")

// Pack compresses a single channel with the ICNS variant of PackBits.
//
// A header byte below 0x80 introduces header+1 literal bytes; a header byte of
// 0x80 or more repeats the following byte header-0x80+3 times.
func Pack(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/128+1)
	for ii := 0; ii < len(data); {
		run := 1
		for ii+run < len(data) && run < 130 && data[ii+run] == data[ii] {
			run++
		}
		if run >= 3 {
			out = append(out, byte(0x80+run-3), data[ii])
			ii += run
			continue
		}
		start := ii
		for ii < len(data) && ii-start < 128 {
			if ii+2 < len(data) && data[ii] == data[ii+1] && data[ii] == data[ii+2] {
				break
			}
			ii++
		}
		out = append(out, byte(ii-start-1))
		out = append(out, data[start:ii]...)
	}
	return out
}

// Unpack expands n bytes of data compressed by Pack and returns the remaining
// input.
func Unpack(data []byte, n int) (out, rest []byte, err error) {
	out = make([]byte, 0, n)
	for len(out) < n {
		if len(data) == 0 {
			return nil, nil, ErrBadRLE
		}
		head := int(data[0])
		data = data[1:]
		if head < 0x80 {
			count := head + 1
			if len(data) < count {
				return nil, nil, ErrBadRLE
			}
			out = append(out, data[:count]...)
			data = data[count:]
		} else {
			if len(data) == 0 {
				return nil, nil, ErrBadRLE
			}
			for count := head - 0x80 + 3; count > 0; count-- {
				out = append(out, data[0])
			}
			data = data[1:]
		}
	}
	if len(out) != n {
		return nil, nil, ErrBadRLE
	}
	return out, data, nil
}

// PackRGB compresses the colour planes of RGBA pixels, red then green then
// blue, as expected by the is32, il32, ih32 and it32 types.
func PackRGB(pix []byte) []byte {
	n := len(pix) / 4
	var out []byte
	plane := make([]byte, n)
	for c := 0; c < 3; c++ {
		for ii := 0; ii < n; ii++ {
			plane[ii] = pix[ii*4+c]
		}
		out = append(out, Pack(plane)...)
	}
	return out
}

// UnpackRGB is the inverse of PackRGB, producing opaque RGBA pixels.
func UnpackRGB(data []byte, n int) ([]byte, error) {
	pix := make([]byte, n*4)
	for ii := 0; ii < n; ii++ {
		pix[ii*4+3] = 0xFF
	}
	for c := 0; c < 3; c++ {
		plane, rest, err := Unpack(data, n)
		if err != nil {
			return nil, err
		}
		for ii, v := range plane {
			pix[ii*4+c] = v
		}
		data = rest
	}
	if len(data) != 0 {
		return nil, ErrBadRLE
	}
	return pix, nil
}

// Mask extracts the alpha channel of RGBA pixels, as stored uncompressed by
// the s8mk, l8mk, h8mk and t8mk types.
func Mask(pix []byte) []byte {
	mask := make([]byte, len(pix)/4)
	for ii := range mask {
		mask[ii] = pix[ii*4+3]
	}
	return mask
}
