package iconwriter

import (
	"io"

	"git.sr.ht/~jackmordaunt/iconwriter/sink"
)

// Encoder serializes entries into a container byte stream.
//
// Encoders must not modify the entries they are given, so encoding the same
// entries twice yields identical bytes.
type Encoder interface {
	Encode(w io.Writer, entries []Entry) error
}

// BlobEncoder serializes entries as individually named blobs.
type BlobEncoder interface {
	EncodeBlobs(s sink.Sink, entries []Entry) error
}

// errWriter latches the first write error so encoders can emit a sequence of
// writes and check once, the way binutil.Writer does.
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.n += int64(n)
	if err != nil {
		ew.err = &IOError{Op: "writing icon", Err: err}
	}
	return n, ew.err
}

// images flattens entries into their images in insertion order.
func images(entries []Entry) []*Buffer {
	var all []*Buffer
	for _, e := range entries {
		all = append(all, e.Images...)
	}
	return all
}
