package iconwriter

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Key labels an entry of an Icon.
//
// The set of keys is closed: SizeKey for size-addressed containers (ICO,
// ICNS) and PathKey for path-addressed ones (PNG sequences, icon themes).
type Key interface {
	// Size is the pixel size the key stands for. A PathKey may report 0 when
	// the path does not pin a single size.
	Size() int
	// Name is the blob name used for the image of the given size.
	Name(size int) string
	fmt.Stringer
	key()
}

// SizeKey is a key that is its own pixel size.
type SizeKey int

func (k SizeKey) Size() int { return int(k) }

func (k SizeKey) Name(size int) string {
	return fmt.Sprintf("%dx%d.png", size, size)
}

func (k SizeKey) String() string { return strconv.Itoa(int(k)) }

func (SizeKey) key() {}

// sizePlaceholder is substituted by the pixel size in PathKey names.
const sizePlaceholder = "{size}"

// PathKey labels an entry by path, eg "hicolor/{size}x{size}/apps/app.png".
type PathKey struct {
	Path string
	// Px is the size the path represents, or 0 when the path is a template
	// covering several sizes.
	Px int
}

// NamedEntry is the common case of a path standing for one size.
func NamedEntry(size int, path string) PathKey {
	return PathKey{Path: path, Px: size}
}

func (k PathKey) Size() int { return k.Px }

// Name substitutes size into the path. A path without a placeholder that is
// asked for a size other than its own is nested under a "<n>x<n>" directory
// so that every size still gets a distinct name.
func (k PathKey) Name(size int) string {
	if strings.Contains(k.Path, sizePlaceholder) {
		return strings.ReplaceAll(k.Path, sizePlaceholder, strconv.Itoa(size))
	}
	if k.Px == size {
		return k.Path
	}
	return path.Join(fmt.Sprintf("%dx%d", size, size), k.Path)
}

func (k PathKey) String() string { return k.Path }

func (PathKey) key() {}

// sameKey reports whether a and b address the same entry. Path keys compare
// by path alone.
func sameKey(a, b Key) bool {
	switch a := a.(type) {
	case SizeKey:
		b, ok := b.(SizeKey)
		return ok && a == b
	case PathKey:
		b, ok := b.(PathKey)
		return ok && a.Path == b.Path
	}
	return false
}

// checkSizes enforces the preconditions shared by AddEntry and Queue.
func checkSizes(key Key, sizes []int) error {
	if len(sizes) == 0 {
		return &InvalidSizeError{Size: key.Size(), Reason: "no sizes requested"}
	}
	seen := make(map[int]bool, len(sizes))
	for _, size := range sizes {
		if size <= 0 {
			return &InvalidSizeError{Size: size, Reason: "size must be positive"}
		}
		if seen[size] {
			return &InvalidSizeError{Size: size, Reason: "size requested twice"}
		}
		seen[size] = true
	}
	switch k := key.(type) {
	case SizeKey:
		if len(sizes) != 1 || sizes[0] != int(k) {
			return &InvalidSizeError{Size: int(k), Reason: fmt.Sprintf("size key %d must request exactly its own size", int(k))}
		}
	case PathKey:
		if k.Path == "" {
			return &InvalidSizeError{Size: k.Px, Reason: "empty path"}
		}
		if k.Px != 0 && !seen[k.Px] {
			return &InvalidSizeError{Size: k.Px, Reason: fmt.Sprintf("path %q stands for size %d which is not requested", k.Path, k.Px)}
		}
	default:
		return fmt.Errorf("iconwriter: unknown key type %T", key)
	}
	return nil
}
