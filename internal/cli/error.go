package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/geoalab/internal/alerr"
)

// FormatError formats an error for CLI display in rustc style.
//
//	error[E5001]: The longitude value 200 is not between -180 and 180
//	  --> models.yaml
//	   |
//	   | column: point
//	help: ...
//
// Errors that are not *alerr.Error get a single "error: msg" line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var ae *alerr.Error
	if errors.As(err, &ae) {
		return formatAlerr(ae)
	}
	return Error("error") + ": " + err.Error() + "\n"
}

// context keys rendered in their own section
var shownKeys = map[string]bool{
	"file": true, "sql": true, "notes": true, "helps": true,
}

func formatAlerr(err *alerr.Error) string {
	var b strings.Builder
	ctx := err.GetContext()

	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	if file, _ := ctx["file"].(string); file != "" {
		fmt.Fprintf(&b, "  %s %s\n", Arrow(), Bold(file))
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if !shownKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		fmt.Fprintf(&b, "   %s\n", Pipe())
		for _, k := range keys {
			fmt.Fprintf(&b, "   %s %s: %v\n", Pipe(), k, ctx[k])
		}
	}

	if sql, _ := ctx["sql"].(string); sql != "" {
		fmt.Fprintf(&b, "   %s\n", Pipe())
		for _, line := range strings.Split(sql, "\n") {
			fmt.Fprintf(&b, "   %s %s\n", Pipe(), SQL(line))
		}
	}

	for _, note := range err.Notes() {
		fmt.Fprintf(&b, "%s: %s\n", Note("note"), note)
	}
	for _, help := range err.Helps() {
		fmt.Fprintf(&b, "%s: %s\n", Help("help"), help)
	}

	if cause := err.GetCause(); cause != nil {
		fmt.Fprintf(&b, "   %s\n", Pipe())
		fmt.Fprintf(&b, "%s: %s\n", Note("cause"), cause.Error())
	}
	return b.String()
}

// FormatWarning formats a warning line.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatSuccess formats a success line.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
