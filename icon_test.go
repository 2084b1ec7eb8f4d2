package iconwriter

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
)

// solid is a square source filled with c.
func solid(t *testing.T, size int, c color.NRGBA) *Source {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for ii := 0; ii < len(img.Pix); ii += 4 {
		img.Pix[ii], img.Pix[ii+1], img.Pix[ii+2], img.Pix[ii+3] = c.R, c.G, c.B, c.A
	}
	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("preparing source: %v", err)
	}
	return src
}

var (
	red         = color.NRGBA{R: 0xFF, A: 0xFF}
	green       = color.NRGBA{G: 0xFF, A: 0xFF}
	blue        = color.NRGBA{B: 0xFF, A: 0xFF}
	transparent = color.NRGBA{}
)

// offByOne is a filter that never honours the requested size.
var offByOne = resample.Func(func(src image.Image, size int) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, size+1, size)), nil
})

func TestNewIsEmpty(t *testing.T) {
	for _, capacity := range []int{0, 1, 100} {
		icon := New(capacity, FormatICO)
		if icon.Len() != 0 {
			t.Fatalf("New(%d): got %d entries, want 0", capacity, icon.Len())
		}
		if icon.Cap() != capacity {
			t.Fatalf("New(%d): cap got=%d", capacity, icon.Cap())
		}
		if err := icon.Write(nil, nil, nil); err != ErrEmptyIcon {
			t.Fatalf("New(%d): writing got err=%v, want=%v", capacity, err, ErrEmptyIcon)
		}
	}
}

func TestAddEntryUniqueness(t *testing.T) {
	src := solid(t, 64, red)
	icon := New(4, FormatICO)
	if err := icon.AddEntry(SizeKey(16), []int{16}, src, resample.Nearest); err != nil {
		t.Fatalf("adding 16: %v", err)
	}
	tests := []struct {
		Key   Key
		Sizes []int
		Size  int
		Dup   bool
	}{
		{Key: SizeKey(16), Sizes: []int{16}, Size: 16},
		{Key: NamedEntry(16, "sixteen.png"), Sizes: []int{16}, Size: 16},
		{Key: PathKey{Path: "many.png"}, Sizes: []int{24, 16}, Size: 16},
	}
	for _, tt := range tests {
		err := icon.AddEntry(tt.Key, tt.Sizes, src, resample.Nearest)
		var dup *SizeAlreadyIncludedError
		if !errors.As(err, &dup) || dup.Size != tt.Size {
			t.Fatalf("%s %v: got err=%v, want size %d already included", tt.Key, tt.Sizes, err, tt.Size)
		}
		if icon.Len() != 1 {
			t.Fatalf("%s %v: entry count got=%d, want=1", tt.Key, tt.Sizes, icon.Len())
		}
	}
}

func TestAddEntryKeyUniqueness(t *testing.T) {
	src := solid(t, 64, red)
	icon := New(2, FormatPNGSequence)
	if err := icon.AddEntry(NamedEntry(32, "app.png"), []int{32}, src, resample.Nearest); err != nil {
		t.Fatalf("adding: %v", err)
	}
	err := icon.AddEntry(NamedEntry(48, "app.png"), []int{48}, src, resample.Nearest)
	var dup *KeyAlreadyIncludedError
	if !errors.As(err, &dup) {
		t.Fatalf("got err=%v, want key already included", err)
	}
	if icon.Len() != 1 {
		t.Fatalf("entry count got=%d, want=1", icon.Len())
	}
}

func TestAddEntrySizeBeforeKey(t *testing.T) {
	src := solid(t, 64, red)
	tests := []struct {
		Queued bool
	}{
		{Queued: false},
		{Queued: true},
	}
	for _, tt := range tests {
		icon := New(2, FormatPNGSequence)
		if err := icon.AddEntry(NamedEntry(16, "a.png"), []int{16}, src, resample.Nearest); err != nil {
			t.Fatalf("adding a.png: %v", err)
		}
		if tt.Queued {
			if err := icon.Queue(NamedEntry(32, "b.png"), []int{32}, src); err != nil {
				t.Fatalf("queueing b.png: %v", err)
			}
		} else if err := icon.AddEntry(NamedEntry(32, "b.png"), []int{32}, src, resample.Nearest); err != nil {
			t.Fatalf("adding b.png: %v", err)
		}
		// a.png is reused and 32 belongs to b.png, a later entry.
		err := icon.AddEntry(NamedEntry(32, "a.png"), []int{32}, src, resample.Nearest)
		var dup *SizeAlreadyIncludedError
		if !errors.As(err, &dup) || dup.Size != 32 {
			t.Fatalf("queued=%v: got err=%v, want size 32 already included", tt.Queued, err)
		}
	}
}

func TestEntriesCopy(t *testing.T) {
	icon := New(1, FormatICO)
	if err := icon.AddSizes(solid(t, 64, red), resample.Nearest, 16); err != nil {
		t.Fatalf("adding: %v", err)
	}
	entries := icon.Entries()
	other, err := NewBuffer(16, 16, make([]byte, 16*16*4))
	if err != nil {
		t.Fatalf("creating buffer: %v", err)
	}
	entries[0].Images[0] = other
	if icon.Entries()[0].Images[0] == other {
		t.Fatalf("caller replaced a committed image")
	}
}

func TestAddEntryAtomic(t *testing.T) {
	src := solid(t, 64, red)
	icon := New(2, FormatPNGSequence)
	if err := icon.AddEntry(NamedEntry(64, "64.png"), []int{64}, src, resample.Nearest); err != nil {
		t.Fatalf("adding 64: %v", err)
	}
	err := icon.AddEntry(PathKey{Path: "{size}.png"}, []int{32, 64}, src, resample.Nearest)
	var dup *SizeAlreadyIncludedError
	if !errors.As(err, &dup) || dup.Size != 64 {
		t.Fatalf("got err=%v, want size 64 already included", err)
	}
	if got, want := icon.Sizes(), []int{64}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sizes got=%v, want=%v", got, want)
	}
	// A failing filter must not leave a partial entry either.
	err = icon.AddEntry(PathKey{Path: "{size}.png"}, []int{32, 48}, src, offByOne)
	var mismatch *MismatchedDimensionsError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got err=%v, want mismatched dimensions", err)
	}
	if icon.Len() != 1 {
		t.Fatalf("entry count got=%d, want=1", icon.Len())
	}
}

func TestAddEntryDimensions(t *testing.T) {
	// Non-square artwork still produces square images.
	img := image.NewNRGBA(image.Rect(0, 0, 100, 70))
	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("preparing source: %v", err)
	}
	sizes := []int{16, 20, 32, 48, 256}
	icon := New(1, FormatPNGSequence)
	if err := icon.AddEntry(PathKey{Path: "{size}.png"}, sizes, src, resample.Linear); err != nil {
		t.Fatalf("adding: %v", err)
	}
	images := icon.Entries()[0].Images
	if len(images) != len(sizes) {
		t.Fatalf("images got=%d, want=%d", len(images), len(sizes))
	}
	for ii, img := range images {
		if img.Width() != sizes[ii] || img.Height() != sizes[ii] {
			t.Fatalf("image %d got=%dx%d, want=%dx%d", ii, img.Width(), img.Height(), sizes[ii], sizes[ii])
		}
	}
}

func TestAddEntryInvalid(t *testing.T) {
	src := solid(t, 8, red)
	tests := []struct {
		Key   Key
		Sizes []int
	}{
		{Key: SizeKey(16), Sizes: nil},
		{Key: SizeKey(16), Sizes: []int{32}},
		{Key: SizeKey(16), Sizes: []int{16, 32}},
		{Key: SizeKey(0), Sizes: []int{0}},
		{Key: PathKey{Path: "a.png"}, Sizes: []int{16, 16}},
		{Key: PathKey{Path: "a.png"}, Sizes: []int{-1}},
		{Key: PathKey{Path: "", Px: 16}, Sizes: []int{16}},
		{Key: PathKey{Path: "a.png", Px: 48}, Sizes: []int{16}},
	}
	for _, tt := range tests {
		icon := New(1, FormatICO)
		err := icon.AddEntry(tt.Key, tt.Sizes, src, resample.Nearest)
		var invalid *InvalidSizeError
		if !errors.As(err, &invalid) {
			t.Fatalf("%#v %v: got err=%v, want invalid size", tt.Key, tt.Sizes, err)
		}
		if icon.Len() != 0 {
			t.Fatalf("%#v %v: entry committed", tt.Key, tt.Sizes)
		}
	}
}

func TestAddSizes(t *testing.T) {
	icon := New(3, FormatICO)
	err := icon.AddSizes(solid(t, 64, red), resample.Nearest, 16, 32, 16)
	var dup *SizeAlreadyIncludedError
	if !errors.As(err, &dup) || dup.Size != 16 {
		t.Fatalf("got err=%v, want size 16 already included", err)
	}
	if got, want := icon.Sizes(), []int{16, 32}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sizes got=%v, want=%v", got, want)
	}
}

func TestQueue(t *testing.T) {
	src := solid(t, 64, green)
	icon := New(2, FormatICO)
	if err := icon.AddSizes(src, resample.Nearest, 16); err != nil {
		t.Fatalf("adding: %v", err)
	}
	if err := icon.Queue(SizeKey(32), []int{32}, src); err != nil {
		t.Fatalf("queueing 32: %v", err)
	}
	var dup *SizeAlreadyIncludedError
	if err := icon.Queue(SizeKey(32), []int{32}, src); !errors.As(err, &dup) {
		t.Fatalf("queueing 32 twice: got err=%v, want size already included", err)
	}
	if err := icon.AddEntry(SizeKey(32), []int{32}, src, resample.Nearest); !errors.As(err, &dup) {
		t.Fatalf("adding queued size: got err=%v, want size already included", err)
	}
	if _, err := icon.Rasterize(nil); err != ErrNoFilter {
		t.Fatalf("rasterizing without filter: got err=%v, want=%v", err, ErrNoFilter)
	}
	images, err := icon.Rasterize(resample.Nearest)
	if err != nil {
		t.Fatalf("rasterizing: %v", err)
	}
	if len(images) != 1 || images[0].Width() != 32 {
		t.Fatalf("rasterized %d images", len(images))
	}
	if icon.Len() != 1 || icon.Pending() != 1 {
		t.Fatalf("rasterize mutated icon: len=%d pending=%d", icon.Len(), icon.Pending())
	}
	if err := icon.Flush(resample.Nearest); err != nil {
		t.Fatalf("flushing: %v", err)
	}
	if icon.Len() != 2 || icon.Pending() != 0 {
		t.Fatalf("after flush: len=%d pending=%d", icon.Len(), icon.Pending())
	}
	if got, want := icon.Sizes(), []int{16, 32}; !reflect.DeepEqual(got, want) {
		t.Fatalf("sizes got=%v, want=%v", got, want)
	}
}

func TestQueueFlushAtomic(t *testing.T) {
	src := solid(t, 64, green)
	icon := New(2, FormatICO)
	if err := icon.Queue(SizeKey(16), []int{16}, src); err != nil {
		t.Fatalf("queueing: %v", err)
	}
	if err := icon.Flush(offByOne); err == nil {
		t.Fatalf("flush with broken filter succeeded")
	}
	if icon.Len() != 0 || icon.Pending() != 1 {
		t.Fatalf("failed flush mutated icon: len=%d pending=%d", icon.Len(), icon.Pending())
	}
}

func TestDispatch(t *testing.T) {
	src := solid(t, 64, blue)
	if _, err := Dispatch(nil, src, 16); err != ErrNoFilter {
		t.Fatalf("nil filter: got err=%v, want=%v", err, ErrNoFilter)
	}
	_, err := Dispatch(offByOne, src, 16)
	var mismatch *MismatchedDimensionsError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got err=%v, want mismatched dimensions", err)
	}
	if mismatch.Expected != 16 || mismatch.Width != 17 || mismatch.Height != 16 {
		t.Fatalf("got %+v", mismatch)
	}
	failing := resample.Func(func(image.Image, int) (image.Image, error) {
		return nil, errors.New("boom")
	})
	var decode *DecodeError
	if _, err := Dispatch(failing, src, 16); !errors.As(err, &decode) {
		t.Fatalf("got err=%v, want decode error", err)
	}
	buf, err := Dispatch(resample.Nearest, src, 16)
	if err != nil {
		t.Fatalf("dispatching: %v", err)
	}
	if got := buf.Image().NRGBAAt(8, 8); got != blue {
		t.Fatalf("pixel got=%v, want=%v", got, blue)
	}
}

func TestKeyNames(t *testing.T) {
	tests := []struct {
		Key  Key
		Size int
		Want string
	}{
		{Key: SizeKey(16), Size: 16, Want: "16x16.png"},
		{Key: NamedEntry(32, "app.png"), Size: 32, Want: "app.png"},
		{Key: PathKey{Path: "app.png"}, Size: 48, Want: "48x48/app.png"},
		{Key: PathKey{Path: "hicolor/{size}x{size}/apps/app.png"}, Size: 24, Want: "hicolor/24x24/apps/app.png"},
	}
	for _, tt := range tests {
		if got := tt.Key.Name(tt.Size); got != tt.Want {
			t.Fatalf("%s.Name(%d) got=%q, want=%q", tt.Key, tt.Size, got, tt.Want)
		}
	}
}

func TestFormat(t *testing.T) {
	for _, f := range []Format{FormatICO, FormatICNS, FormatPNGSequence} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) got=%v err=%v", f, got, err)
		}
	}
	if _, err := ParseFormat("bmp"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}
