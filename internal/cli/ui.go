package cli

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	errColor  = color.New(color.FgRed)
)

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func printWarn(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠ "+format+"\n", args...)
}

// printIssues lists every issue of result; form level issues are shown
// without a path.
func printIssues(w io.Writer, result validation.Result) {
	for _, issue := range result.Issues {
		if issue.Path == "" {
			errColor.Fprintf(w, "✗ %s\n", issue.Message)
			continue
		}
		errColor.Fprintf(w, "✗ %s: %s\n", issue.Path, issue.Message)
	}
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
