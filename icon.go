// Package iconwriter builds multi-resolution icon containers (.ico, .icns and
// PNG sequences) from source artwork.
//
// An Icon is a set of entries. Each entry is keyed and holds one rasterized
// image per requested size; no size may appear twice in an Icon. Images are
// produced by scaling a Source with a resampling filter, see package
// resample. A populated Icon is then serialized by an Encoder.
package iconwriter

import (
	"fmt"
	"io"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
	"git.sr.ht/~jackmordaunt/iconwriter/sink"
)

// Format identifies the container an Icon is destined for.
type Format int

const (
	FormatICO Format = iota
	FormatICNS
	FormatPNGSequence
)

func (f Format) String() string {
	switch f {
	case FormatICO:
		return "ico"
	case FormatICNS:
		return "icns"
	case FormatPNGSequence:
		return "png"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatICO, FormatICNS, FormatPNGSequence} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown icon format %q", s)
}

// Encoder returns the default stream encoder for the format.
func (f Format) Encoder() Encoder {
	switch f {
	case FormatICNS:
		return ICNS{}
	case FormatPNGSequence:
		return PNGSequence{}
	}
	return ICO{}
}

// Entry is one keyed unit of an Icon, holding an image per size.
type Entry struct {
	Key    Key
	Images []*Buffer
}

// Sizes lists the sizes of the entry's images in request order.
func (e Entry) Sizes() []int {
	sizes := make([]int, len(e.Images))
	for ii, img := range e.Images {
		sizes[ii] = img.Width()
	}
	return sizes
}

// pending is an entry declared with Queue whose images are not rendered yet.
type pending struct {
	key   Key
	sizes []int
	src   *Source
}

// Icon is an ordered set of entries.
//
// Icon is not safe for concurrent mutation; callers that resample in parallel
// must merge results from a single goroutine.
type Icon struct {
	format  Format
	cap     int
	entries []Entry
	pending []pending
}

// New allocates an empty icon. capacity only pre-sizes storage: the icon
// starts without entries regardless of its value.
func New(capacity int, format Format) *Icon {
	if capacity < 0 {
		capacity = 0
	}
	return &Icon{
		format:  format,
		cap:     capacity,
		entries: make([]Entry, 0, capacity),
	}
}

// Format the icon was created for.
func (icon *Icon) Format() Format { return icon.format }

// Cap is the capacity hint given to New.
func (icon *Icon) Cap() int { return icon.cap }

// Len is the number of committed entries.
func (icon *Icon) Len() int { return len(icon.entries) }

// Entries returns a copy of the committed entries in insertion order.
// Buffers are immutable and shared.
func (icon *Icon) Entries() []Entry {
	entries := make([]Entry, len(icon.entries))
	for ii, e := range icon.entries {
		entries[ii] = Entry{Key: e.Key, Images: append([]*Buffer(nil), e.Images...)}
	}
	return entries
}

// Sizes lists every committed size in insertion order.
func (icon *Icon) Sizes() []int {
	var sizes []int
	for _, e := range icon.entries {
		sizes = append(sizes, e.Sizes()...)
	}
	return sizes
}

// AddEntry rasterizes src at each of sizes and commits the result under key.
//
// The call is atomic: if validation or any resampling fails, the icon is left
// as it was. Sizes are resampled concurrently, so filter must be safe for
// concurrent use, as all of the resample presets are.
func (icon *Icon) AddEntry(key Key, sizes []int, src *Source, filter resample.Filter) error {
	if err := icon.validate(key, sizes); err != nil {
		return err
	}
	if src == nil {
		return &DecodeError{Err: fmt.Errorf("no source for key %q", key)}
	}
	images, err := dispatchAll(filter, src, sizes)
	if err != nil {
		return fmt.Errorf("adding %q: %w", key, err)
	}
	icon.entries = append(icon.entries, Entry{Key: key, Images: images})
	return nil
}

// AddSizes adds one SizeKey entry per size, stopping at the first failure.
// Entries added before the failure stay in the icon.
func (icon *Icon) AddSizes(src *Source, filter resample.Filter, sizes ...int) error {
	for _, size := range sizes {
		if err := icon.AddEntry(SizeKey(size), []int{size}, src, filter); err != nil {
			return err
		}
	}
	return nil
}

// Queue declares an entry whose images are rendered later, by Rasterize,
// Flush or Write. It is validated like AddEntry. The icon holds on to src
// until the entry is flushed.
func (icon *Icon) Queue(key Key, sizes []int, src *Source) error {
	if err := icon.validate(key, sizes); err != nil {
		return err
	}
	if src == nil {
		return &DecodeError{Err: fmt.Errorf("no source for key %q", key)}
	}
	icon.pending = append(icon.pending, pending{
		key:   key,
		sizes: append([]int(nil), sizes...),
		src:   src,
	})
	return nil
}

// Pending is the number of queued entries.
func (icon *Icon) Pending() int { return len(icon.pending) }

// Rasterize renders every queued entry with filter and returns the images in
// queue order. The icon is not modified.
func (icon *Icon) Rasterize(filter resample.Filter) ([]*Buffer, error) {
	entries, err := icon.render(filter)
	if err != nil {
		return nil, err
	}
	var images []*Buffer
	for _, e := range entries {
		images = append(images, e.Images...)
	}
	return images, nil
}

// Flush renders the queue and commits it. Either every queued entry is
// committed or none is.
func (icon *Icon) Flush(filter resample.Filter) error {
	entries, err := icon.render(filter)
	if err != nil {
		return err
	}
	icon.entries = append(icon.entries, entries...)
	icon.pending = nil
	return nil
}

func (icon *Icon) render(filter resample.Filter) ([]Entry, error) {
	if len(icon.pending) == 0 {
		return nil, nil
	}
	if filter == nil {
		return nil, ErrNoFilter
	}
	entries := make([]Entry, 0, len(icon.pending))
	for _, p := range icon.pending {
		images, err := dispatchAll(filter, p.src, p.sizes)
		if err != nil {
			return nil, fmt.Errorf("rasterizing %q: %w", p.key, err)
		}
		entries = append(entries, Entry{Key: p.key, Images: images})
	}
	return entries, nil
}

// snapshot is every entry an encoder should see: committed entries followed
// by the rendered queue.
func (icon *Icon) snapshot(filter resample.Filter) ([]Entry, error) {
	queued, err := icon.render(filter)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(icon.entries)+len(queued))
	entries = append(entries, icon.entries...)
	entries = append(entries, queued...)
	if len(entries) == 0 {
		return nil, ErrEmptyIcon
	}
	return entries, nil
}

// Write encodes the icon to w. A nil enc selects the default encoder for the
// icon's format. filter is only used for queued entries and may be nil when
// there are none.
//
// A failed Write leaves the icon intact but may leave w partially written.
func (icon *Icon) Write(w io.Writer, enc Encoder, filter resample.Filter) error {
	if enc == nil {
		enc = icon.format.Encoder()
	}
	entries, err := icon.snapshot(filter)
	if err != nil {
		return err
	}
	return enc.Encode(w, entries)
}

// Export hands the icon to a sink blob by blob, for directory-style output.
func (icon *Icon) Export(s sink.Sink, enc BlobEncoder, filter resample.Filter) error {
	if enc == nil {
		enc = PNGSequence{}
	}
	entries, err := icon.snapshot(filter)
	if err != nil {
		return err
	}
	return enc.EncodeBlobs(s, entries)
}

// validate checks key and sizes against the preconditions and against every
// committed and queued entry.
func (icon *Icon) validate(key Key, sizes []int) error {
	if key == nil {
		return &InvalidSizeError{Reason: "nil key"}
	}
	if err := checkSizes(key, sizes); err != nil {
		return err
	}
	// Sizes are checked against every entry before any key is compared, so a
	// taken size is always reported as such.
	for _, size := range sizes {
		for _, e := range icon.entries {
			if containsSize(e.Sizes(), size) {
				return &SizeAlreadyIncludedError{Size: size}
			}
		}
		for _, p := range icon.pending {
			if containsSize(p.sizes, size) {
				return &SizeAlreadyIncludedError{Size: size}
			}
		}
	}
	for _, e := range icon.entries {
		if sameKey(e.Key, key) {
			return &KeyAlreadyIncludedError{Key: key}
		}
	}
	for _, p := range icon.pending {
		if sameKey(p.key, key) {
			return &KeyAlreadyIncludedError{Key: key}
		}
	}
	return nil
}

func containsSize(sizes []int, size int) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
