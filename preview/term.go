package preview

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// TermSize returns the size in cells of the terminal attached to f.
func TermSize(f *os.File) (cols, rows int, err error) {
	return terminal.GetSize(int(f.Fd()))
}

// RawMode puts the terminal attached to f into raw mode so that single key
// presses can be read.  The returned function restores the previous mode.
func RawMode(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	state, err := terminal.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return terminal.Restore(fd, state) }, nil
}
