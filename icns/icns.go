// Package icns implements the chunked container of Apple icon files.
//
// Everything on the wire is big-endian. A file is the magic "icns", the total
// file length, and a sequence of chunks each made of a four byte OSType, the
// chunk length (including the eight header bytes) and the payload.
package icns

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic is the byte string prefix of every ICNS file.
const Magic = "icns"

// HeaderSize is the size of the file header and of each chunk header.
const HeaderSize = 8

var (
	ErrNotICNS   = errors.New("icns: not an icns file")
	ErrBadChunk  = errors.New("icns: bad chunk")
	ErrBadOSType = errors.New("icns: OSType must be four bytes")
)

// Chunk is one element of an icon family.
type Chunk struct {
	Type string
	Data []byte
}

// Len is the on-disk length of the chunk.
func (c Chunk) Len() int { return HeaderSize + len(c.Data) }

// Length is the total file length for chunks.
func Length(chunks []Chunk) int {
	n := HeaderSize
	for _, c := range chunks {
		n += c.Len()
	}
	return n
}

// Write emits the file header followed by chunks in order.
func Write(w io.Writer, chunks []Chunk) error {
	for _, c := range chunks {
		if len(c.Type) != 4 {
			return ErrBadOSType
		}
	}
	var head [HeaderSize]byte
	copy(head[:4], Magic)
	binary.BigEndian.PutUint32(head[4:], uint32(Length(chunks)))
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("writing icns header: %w", err)
	}
	for _, c := range chunks {
		copy(head[:4], c.Type)
		binary.BigEndian.PutUint32(head[4:], uint32(c.Len()))
		if _, err := w.Write(head[:]); err != nil {
			return fmt.Errorf("writing %s header: %w", c.Type, err)
		}
		if _, err := w.Write(c.Data); err != nil {
			return fmt.Errorf("writing %s data: %w", c.Type, err)
		}
	}
	return nil
}

// Read parses a whole ICNS file.
func Read(r io.Reader) ([]Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading icns: %w", err)
	}
	if len(data) < HeaderSize || !bytes.Equal(data[:4], []byte(Magic)) {
		return nil, ErrNotICNS
	}
	if total := binary.BigEndian.Uint32(data[4:]); int(total) != len(data) {
		return nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrNotICNS, total, len(data))
	}
	var chunks []Chunk
	for rest := data[HeaderSize:]; len(rest) > 0; {
		if len(rest) < HeaderSize {
			return nil, ErrBadChunk
		}
		n := int(binary.BigEndian.Uint32(rest[4:]))
		if n < HeaderSize || n > len(rest) {
			return nil, ErrBadChunk
		}
		chunks = append(chunks, Chunk{
			Type: string(rest[:4]),
			Data: rest[HeaderSize:n],
		})
		rest = rest[n:]
	}
	return chunks, nil
}
