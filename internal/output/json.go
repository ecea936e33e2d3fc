package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/deeemdeeem/tt-report-automation/cmd/version"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, missing file, malformed workbook
	ExitSystemError = 2 // IO error, listener failure
)

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool        `json:"ok"`
	Command string      `json:"command"`
	Version string      `json:"version"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// Stdout is where PrintJSON writes. Tests swap it.
var Stdout io.Writer = os.Stdout

// PrintJSON writes a standard success JSON result.
func PrintJSON(cmd string, data interface{}) error {
	return encode(JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	})
}

// PrintJSONError writes a standard error JSON result.
func PrintJSONError(cmd string, err error, code int) error {
	if encErr := encode(JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Code:    code,
	}); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

func encode(v JSONResult) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
