package util

import (
	"fmt"
	"strings"
)

// MultiError combines a number of errors into a single error value.
type MultiError []error

// Append adds err unless it is nil.
func (me *MultiError) Append(err error) {
	if err != nil {
		*me = append(*me, err)
	}
}

func (me MultiError) IsEmpty() bool {
	return len(me) == 0
}

// Err is nil for an empty MultiError, and me otherwise.
func (me MultiError) Err() error {
	if me.IsEmpty() {
		return nil
	}
	return me
}

// Unwrap exposes the combined errors to errors.Is and errors.As.
func (me MultiError) Unwrap() []error {
	return me
}

func (me MultiError) Error() string {
	if len(me) == 1 {
		return me[0].Error()
	}
	var b strings.Builder
	b.WriteString("[\n")
	for ii, err := range me {
		fmt.Fprintf(&b, "\t%d: %s\n", ii+1, err)
	}
	b.WriteString("]\n")
	return b.String()
}
