package iconwriter

import (
	"bytes"
	"fmt"
	"path"

	"git.sr.ht/~jackmordaunt/iconwriter/resample"
	"git.sr.ht/~jackmordaunt/iconwriter/rsrc"
	"git.sr.ht/~jackmordaunt/iconwriter/sink"
)

// Platform identifier for the platforms we care about.
type Platform int

const (
	Windows Platform = iota
	Darwin
	Linux
)

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Darwin:
		return "darwin"
	case Linux:
		return "linux"
	}
	return ""
}

// ParsePlatform is the inverse of Platform.String.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range []Platform{Windows, Darwin, Linux} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

var (
	// WindowsSizes are the sizes Explorer picks from.
	WindowsSizes = []int{16, 24, 32, 48, 64, 128, 256}
	// LinuxSizes are the hicolor theme directories populated by Pack.
	LinuxSizes = []int{16, 24, 32, 48, 64, 128, 256, 512}
)

// MetaData is the platform specific information Pack needs besides artwork.
type MetaData struct {
	// Name is the base name of the icon files, "icon" if empty.
	Name string
	Windows struct {
		// Manifest, if set, is compiled into the .syso alongside the icon.
		Manifest []byte
		// Arch selects the object architecture, "amd64" if empty.
		Arch string
	}
}

// Artifact is one file produced for a platform.
type Artifact struct {
	Platform Platform
	Name     string
	Data     []byte
}

// Pack renders src into the icon files each platform expects:
//
//	windows: <name>.ico and a rsrc_windows_<arch>.syso embedding it
//	darwin:  <name>.icns
//	linux:   hicolor/<n>x<n>/apps/<name>.png
func Pack(src *Source, filter resample.Filter, md MetaData, platforms ...Platform) ([]Artifact, error) {
	name := md.Name
	if name == "" {
		name = "icon"
	}
	var artifacts []Artifact
	for _, p := range platforms {
		var (
			produced []Artifact
			err      error
		)
		switch p {
		case Windows:
			produced, err = packWindows(src, filter, name, md.Windows.Arch, md.Windows.Manifest)
		case Darwin:
			produced, err = packDarwin(src, filter, name)
		case Linux:
			produced, err = packLinux(src, filter, name)
		default:
			err = fmt.Errorf("unknown platform %d", int(p))
		}
		if err != nil {
			return nil, fmt.Errorf("bundling %s: %w", p, err)
		}
		artifacts = append(artifacts, produced...)
	}
	return artifacts, nil
}

func packWindows(src *Source, filter resample.Filter, name, arch string, manifest []byte) ([]Artifact, error) {
	if arch == "" {
		arch = "amd64"
	}
	icon := New(len(WindowsSizes), FormatICO)
	if err := icon.AddSizes(src, filter, WindowsSizes...); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := icon.Write(buf, nil, nil); err != nil {
		return nil, fmt.Errorf("encoding ico: %w", err)
	}
	syso := bytes.NewBuffer(nil)
	if err := rsrc.Embed(syso, arch, manifest, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("embedding ico: %w", err)
	}
	return []Artifact{
		{Platform: Windows, Name: name + ".ico", Data: buf.Bytes()},
		{Platform: Windows, Name: "rsrc_windows_" + arch + ".syso", Data: syso.Bytes()},
	}, nil
}

func packDarwin(src *Source, filter resample.Filter, name string) ([]Artifact, error) {
	sizes := DefaultPolicy.Sizes()
	icon := New(len(sizes), FormatICNS)
	if err := icon.AddSizes(src, filter, sizes...); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := icon.Write(buf, nil, nil); err != nil {
		return nil, fmt.Errorf("encoding icns: %w", err)
	}
	return []Artifact{{Platform: Darwin, Name: name + ".icns", Data: buf.Bytes()}}, nil
}

func packLinux(src *Source, filter resample.Filter, name string) ([]Artifact, error) {
	icon := New(1, FormatPNGSequence)
	key := PathKey{Path: path.Join("hicolor", sizePlaceholder+"x"+sizePlaceholder, "apps", name+".png")}
	if err := icon.AddEntry(key, LinuxSizes, src, filter); err != nil {
		return nil, err
	}
	var mem sink.Memory
	if err := icon.Export(&mem, nil, nil); err != nil {
		return nil, fmt.Errorf("encoding png sequence: %w", err)
	}
	artifacts := make([]Artifact, 0, len(mem.Names))
	for _, n := range mem.Names {
		artifacts = append(artifacts, Artifact{Platform: Linux, Name: n, Data: mem.Blobs[n]})
	}
	return artifacts, nil
}

// Store puts each artifact into s under "<platform>/<name>".
func Store(s sink.Sink, artifacts []Artifact) error {
	for _, a := range artifacts {
		name := path.Join(a.Platform.String(), a.Name)
		if err := s.Put(name, a.Data); err != nil {
			return &IOError{Op: "storing " + name, Err: err}
		}
	}
	return nil
}
