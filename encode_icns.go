package iconwriter

import (
	"fmt"
	"io"
	"sort"

	"git.sr.ht/~jackmordaunt/iconwriter/icns"
)

// Codec is how an ICNS icon type stores its pixels.
type Codec int

const (
	// CodecRLE is run-length encoded 24-bit colour plus an 8-bit mask chunk.
	CodecRLE Codec = iota
	// CodecPNG is a complete PNG stream.
	CodecPNG
)

// IconType is an ICNS OSType together with the size and codec it implies.
type IconType struct {
	OSType string
	// Mask is the OSType of the companion alpha chunk for CodecRLE types.
	Mask  string
	Size  int
	Codec Codec
}

var (
	TypeIs32 = IconType{OSType: "is32", Mask: "s8mk", Size: 16, Codec: CodecRLE}
	TypeIl32 = IconType{OSType: "il32", Mask: "l8mk", Size: 32, Codec: CodecRLE}
	TypeIh32 = IconType{OSType: "ih32", Mask: "h8mk", Size: 48, Codec: CodecRLE}
	TypeIt32 = IconType{OSType: "it32", Mask: "t8mk", Size: 128, Codec: CodecRLE}
	TypeIcp4 = IconType{OSType: "icp4", Size: 16, Codec: CodecPNG}
	TypeIcp5 = IconType{OSType: "icp5", Size: 32, Codec: CodecPNG}
	TypeIcp6 = IconType{OSType: "icp6", Size: 64, Codec: CodecPNG}
	TypeIc07 = IconType{OSType: "ic07", Size: 128, Codec: CodecPNG}
	TypeIc08 = IconType{OSType: "ic08", Size: 256, Codec: CodecPNG}
	TypeIc09 = IconType{OSType: "ic09", Size: 512, Codec: CodecPNG}
	TypeIc10 = IconType{OSType: "ic10", Size: 1024, Codec: CodecPNG}
	// Retina variants: same pixel count as a larger type, tagged @2x.
	TypeIc11 = IconType{OSType: "ic11", Size: 32, Codec: CodecPNG}
	TypeIc12 = IconType{OSType: "ic12", Size: 64, Codec: CodecPNG}
	TypeIc13 = IconType{OSType: "ic13", Size: 256, Codec: CodecPNG}
	TypeIc14 = IconType{OSType: "ic14", Size: 512, Codec: CodecPNG}
)

// Policy chooses the icon type for each pixel size.
type Policy map[int]IconType

// DefaultPolicy prefers the legacy RLE types where they exist and PNG for the
// remaining sizes.
var DefaultPolicy = Policy{
	16:   TypeIs32,
	32:   TypeIl32,
	48:   TypeIh32,
	64:   TypeIcp6,
	128:  TypeIt32,
	256:  TypeIc08,
	512:  TypeIc09,
	1024: TypeIc10,
}

// PNGPolicy stores every size as PNG.
var PNGPolicy = Policy{
	16:   TypeIcp4,
	32:   TypeIcp5,
	64:   TypeIcp6,
	128:  TypeIc07,
	256:  TypeIc08,
	512:  TypeIc09,
	1024: TypeIc10,
}

// Sizes lists the sizes covered by the policy in ascending order.
func (p Policy) Sizes() []int {
	sizes := make([]int, 0, len(p))
	for size := range p {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// ICNS encodes entries as an Apple .icns file.
type ICNS struct {
	// Policy defaults to DefaultPolicy.
	Policy Policy
}

func (enc ICNS) policy() Policy {
	if enc.Policy == nil {
		return DefaultPolicy
	}
	return enc.Policy
}

// Encode emits the chunks for every image in insertion order. A size without
// an icon type in the policy fails the whole encoding.
func (enc ICNS) Encode(w io.Writer, entries []Entry) error {
	chunks, err := enc.Chunks(entries)
	if err != nil {
		return err
	}
	ew := &errWriter{w: w}
	if err := icns.Write(ew, chunks); err != nil {
		if ew.err != nil {
			return ew.err
		}
		return err
	}
	return nil
}

// Chunks builds the chunk list without writing it.
func (enc ICNS) Chunks(entries []Entry) ([]icns.Chunk, error) {
	all := images(entries)
	if len(all) == 0 {
		return nil, ErrEmptyIcon
	}
	var (
		policy = enc.policy()
		chunks = make([]icns.Chunk, 0, 2*len(all))
	)
	for _, img := range all {
		t, ok := policy[img.Size()]
		if !ok || t.Size != img.Size() {
			return nil, &UnsupportedIconTypeError{Format: FormatICNS, Size: img.Width()}
		}
		switch t.Codec {
		case CodecRLE:
			data := icns.PackRGB(img.Pix())
			if t.OSType == TypeIt32.OSType {
				data = append([]byte{0, 0, 0, 0}, data...)
			}
			chunks = append(chunks,
				icns.Chunk{Type: t.OSType, Data: data},
				icns.Chunk{Type: t.Mask, Data: icns.Mask(img.Pix())},
			)
		case CodecPNG:
			data, err := encodePNG(img)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", t.OSType, err)
			}
			chunks = append(chunks, icns.Chunk{Type: t.OSType, Data: data})
		default:
			return nil, &UnsupportedIconTypeError{Format: FormatICNS, Size: img.Width()}
		}
	}
	return chunks, nil
}
