// Package output provides formatting utilities for CLI output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// Success prints a green check line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "  %s %s\n", green.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "  %s %s\n", yellow.Sprint("!"), fmt.Sprintf(format, args...))
}

// Fail prints a red cross line.
func Fail(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "  %s %s\n", red.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Heading prints a bold section title.
func Heading(w io.Writer, title string) {
	color.New(color.Bold).Fprintln(w, title)
}

// WriteError writes an error message to stderr.
func WriteError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
