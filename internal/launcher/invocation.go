package launcher

import (
	"strconv"
	"strings"
)

// PasswordFlag precedes the password in the forwarded arguments.
const PasswordFlag = "-p"

const redacted = "******"

// EnvVar is one variable set for the child process.
type EnvVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Invocation is a validated command ready to run. Args are passed to the
// entrypoint as an argument vector, never through a shell.
type Invocation struct {
	Entrypoint string
	Args       []string
	Dir        string
	Env        []string
	Overrides  []EnvVar
}

// Path is the entrypoint resolved against Dir.
func (inv *Invocation) Path() string {
	return resolve(inv.Dir, inv.Entrypoint)
}

// Argv returns the entrypoint followed by the forwarded flags.
func (inv *Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+1)
	argv = append(argv, inv.Entrypoint)
	return append(argv, inv.Args...)
}

// RedactedArgv is Argv with the password masked.
func (inv *Invocation) RedactedArgv() []string {
	argv := inv.Argv()
	for i := 1; i < len(argv)-1; i++ {
		if argv[i] == PasswordFlag {
			argv[i+1] = redacted
			i++
		}
	}
	return argv
}

// String renders the redacted command line, quoting values that need it.
// It is for display only.
func (inv *Invocation) String() string {
	argv := inv.RedactedArgv()
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$`") {
			parts[i] = strconv.Quote(a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
