// Package rsrc compiles encoded .ico files into COFF objects (.syso) that the
// Go linker embeds as Windows icon resources.
package rsrc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/akavel/rsrc/binutil"
	"github.com/akavel/rsrc/coff"
	"github.com/akavel/rsrc/ico"
)

// ErrNoIcons is returned when none of the given icons holds an image.
var ErrNoIcons = errors.New("rsrc: no icon images")

// Embed writes a COFF object for arch ("386", "amd64", "arm", "arm64") holding
// one icon group per .ico file and, when non-empty, an application manifest.
func Embed(out io.Writer, arch string, manifest []byte, icons ...[]byte) error {
	nextID := idGenerator()
	coffData := coff.NewRSRC()
	if err := coffData.Arch(arch); err != nil {
		return fmt.Errorf("setting architecture: %w", err)
	}
	if len(manifest) > 0 {
		coffData.AddResource(coff.RT_MANIFEST, nextID(), sized(manifest))
	}
	var count int
	for ii, icon := range icons {
		n, err := addIcon(coffData, icon, nextID)
		if err != nil {
			return fmt.Errorf("adding icon %d: %w", ii, err)
		}
		count += n
	}
	if count == 0 {
		return ErrNoIcons
	}
	coffData.Freeze()
	return write(coffData, out)
}

// on storing icons, see: http://blogs.msdn.com/b/oldnewthing/archive/2012/07/20/10331787.aspx
type iconGroup struct {
	ico.ICONDIR
	Entries []iconEntry
}

func (group iconGroup) Size() int64 {
	return int64(binary.Size(group.ICONDIR) + len(group.Entries)*binary.Size(group.Entries[0]))
}

type iconEntry struct {
	ico.IconDirEntryCommon
	Id uint16
}

func sized(data []byte) *io.SectionReader {
	return io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
}

// addIcon adds every image of an .ico file as RT_ICON plus one RT_GROUP_ICON
// referencing them, returning the number of images.
func addIcon(out *coff.Coff, icon []byte, newid func() uint16) (int, error) {
	icons, err := ico.DecodeHeaders(bytes.NewReader(icon))
	if err != nil {
		return 0, fmt.Errorf("decoding header: %w", err)
	}
	if len(icons) == 0 {
		return 0, nil
	}
	var (
		r     = bytes.NewReader(icon)
		group = iconGroup{ICONDIR: ico.ICONDIR{
			Reserved: 0, // magic num.
			Type:     1, // magic num.
			Count:    uint16(len(icons)),
		}}
	)
	for _, entry := range icons {
		if int64(entry.ImageOffset)+int64(entry.BytesInRes) > int64(len(icon)) {
			return 0, fmt.Errorf("image at %d overruns file of %d bytes", entry.ImageOffset, len(icon))
		}
		id := newid()
		out.AddResource(coff.RT_ICON, id, io.NewSectionReader(r, int64(entry.ImageOffset), int64(entry.BytesInRes)))
		group.Entries = append(group.Entries, iconEntry{entry.IconDirEntryCommon, id})
	}
	out.AddResource(coff.RT_GROUP_ICON, newid(), group)
	return len(icons), nil
}

func write(coff *coff.Coff, out io.Writer) error {
	w := binutil.Writer{W: out}
	if err := binutil.Walk(coff, func(v reflect.Value, path string) error {
		if binutil.Plain(v.Kind()) {
			w.WriteLE(v.Interface())
			return nil
		}
		vv, ok := v.Interface().(binutil.SizedReader)
		if ok {
			w.WriteFromSized(vv)
			return binutil.WALK_SKIP
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking coff: %w", err)
	}
	if w.Err != nil {
		return fmt.Errorf("writing output: %w", w.Err)
	}
	return nil
}

func idGenerator() func() uint16 {
	id := uint16(0)
	return func() uint16 {
		id++
		return id
	}
}
