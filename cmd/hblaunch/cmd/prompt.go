package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPassword reads a password with echo disabled. ok is false when in
// is not a terminal, in which case nothing is read.
func terminalPassword(in *os.File, out io.Writer, label string) (password string, ok bool, err error) {
	if in == nil {
		return "", false, nil
	}
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", false, nil
	}

	fmt.Fprint(out, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", true, err
	}
	return strings.TrimRight(string(raw), "\r\n"), true, nil
}
