package launcher

import "fmt"

// Exit codes reported by the launcher itself. Any other status is the child's.
const (
	ExitUsage       = 1
	ExitBadConfig   = 3
	ExitBadFilename = 4
	ExitCannotStart = 126
)

// Kind classifies a launch rejection.
type Kind string

const (
	KindUsage       Kind = "usage"
	KindEnvironment Kind = "environment"
	KindFilename    Kind = "filename"
	KindConfig      Kind = "config"
)

// Error is a launch rejection detected before any process is started.
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// UsageError reports a malformed command line.
func UsageError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUsage, Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

func environmentError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindEnvironment, Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}
