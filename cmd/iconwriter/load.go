package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/markbates/pkger"

	"git.sr.ht/~jackmordaunt/iconwriter"
	"git.sr.ht/~jackmordaunt/iconwriter/internal/util"
)

// load decodes the source artwork.
//
// With an explicit path that file is used. Otherwise, in auto mode, the
// working tree is searched for icon.svg then icon.png, falling back to the
// default artwork. Without either, stdin is read.
func load(path string, auto bool, stderr io.Writer) (*iconwriter.Source, error) {
	if path != "" {
		return iconwriter.Open(path)
	}
	if !auto {
		return iconwriter.Decode(os.Stdin)
	}
	found, err := util.Finder{Root: ".", Skip: []string{".git", "vendor", "node_modules"}}.Find("icon.svg", "icon.png")
	if err != nil {
		return nil, fmt.Errorf("finding icon: %w", err)
	}
	if found != "" {
		fmt.Fprintf(stderr, "icon: %v\n", found)
		return iconwriter.Open(found)
	}
	fmt.Fprintf(stderr, "warning: icon not found; using default\n")
	by, err := defaultArtwork()
	if err != nil {
		return nil, err
	}
	return iconwriter.Decode(bytes.NewReader(by))
}

// defaultArtwork reads default.svg through pkger. Running `pkger -o
// cmd/iconwriter` from the module root packs it into the binary; without that
// it is read from the module on disk.
func defaultArtwork() ([]byte, error) {
	f, err := pkger.Open(pkger.Include("/cmd/iconwriter/default.svg"))
	if err != nil {
		return nil, fmt.Errorf("default icon not compiled in, see https://github.com/markbates/pkger")
	}
	defer f.Close()
	by, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading default icon: %w", err)
	}
	return by, nil
}
