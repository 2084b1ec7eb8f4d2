package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// InfoHeader is a BITMAPINFOHEADER as embedded in icon resources. Height
// covers both the XOR and AND planes, so it is twice the image height.
type InfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// maskStride is the byte length of an AND mask row, padded to 32 bits.
func maskStride(width int) int {
	return ((width + 31) / 32) * 4
}

// EncodeDIB converts non-premultiplied RGBA pixels into a 32-bit bottom-up
// bitmap followed by its 1-bit transparency mask.
func EncodeDIB(width, height int, pix []byte) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, ErrBadDIB
	}
	var (
		xor  = width * height * 4
		and  = maskStride(width) * height
		info = InfoHeader{
			Size:      InfoHeaderSize,
			Width:     int32(width),
			Height:    int32(height * 2),
			Planes:    1,
			BitCount:  32,
			SizeImage: uint32(xor + and),
		}
		buf = bytes.NewBuffer(make([]byte, 0, InfoHeaderSize+xor+and))
	)
	if err := binary.Write(buf, binary.LittleEndian, info); err != nil {
		return nil, fmt.Errorf("writing bitmap header: %w", err)
	}
	for y := height - 1; y >= 0; y-- {
		row := pix[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4]
			buf.Write([]byte{p[2], p[1], p[0], p[3]})
		}
	}
	mask := make([]byte, maskStride(width))
	for y := height - 1; y >= 0; y-- {
		for ii := range mask {
			mask[ii] = 0
		}
		for x := 0; x < width; x++ {
			if pix[(y*width+x)*4+3] == 0 {
				mask[x/8] |= 0x80 >> uint(x%8)
			}
		}
		buf.Write(mask)
	}
	return buf.Bytes(), nil
}

// DecodeDIB is the inverse of EncodeDIB. Only 32-bit uncompressed bitmaps are
// understood.
func DecodeDIB(data []byte) (width, height int, pix []byte, err error) {
	var info InfoHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &info); err != nil {
		return 0, 0, nil, fmt.Errorf("reading bitmap header: %w", err)
	}
	if info.Size != InfoHeaderSize || info.BitCount != 32 || info.Compression != 0 {
		return 0, 0, nil, ErrBadDIB
	}
	width, height = int(info.Width), int(info.Height)/2
	if width <= 0 || height <= 0 {
		return 0, 0, nil, ErrBadDIB
	}
	body := data[InfoHeaderSize:]
	if len(body) < width*height*4+maskStride(width)*height {
		return 0, 0, nil, ErrBadDIB
	}
	pix = make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		src := body[(height-1-y)*width*4:]
		for x := 0; x < width; x++ {
			b, g, r, a := src[x*4], src[x*4+1], src[x*4+2], src[x*4+3]
			copy(pix[(y*width+x)*4:], []byte{r, g, b, a})
		}
	}
	return width, height, pix, nil
}
