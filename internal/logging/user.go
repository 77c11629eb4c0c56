package logging

import (
	"fmt"
	"io"
	"os"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects status lines. Nil writers restore the defaults.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

// status writes one marked line. Scripts match on the mark, so keep it
// stable.
func status(w io.Writer, mark, format string, args []any) {
	fmt.Fprintf(w, mark+" "+format+"\n", args...)
}

// UserInfo reports progress, such as which bundle was resolved.
func UserInfo(format string, args ...any) { status(stdout, "ℹ", format, args) }

// UserSuccess reports a finished step, such as the files written.
func UserSuccess(format string, args ...any) { status(stdout, "✓", format, args) }

// UserWarning goes to stderr so that stdout stays parseable.
func UserWarning(format string, args ...any) { status(stderr, "⚠", format, args) }

func UserError(format string, args ...any) { status(stderr, "✗", format, args) }
