package util

import (
	"fmt"
	"strings"
)

// PosError is a load-time syntax error carrying its source position, so the
// CLI can point at the offending line. Line and Column are 1-based.
type PosError struct {
	Line   int
	Column int
	Msg    string
}

func (e *PosError) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, e.Msg)
}

// SourceContext renders the given source line with a caret under the
// column, for syntax-error reports. Returns "" when the position does not
// fall inside the source.
func SourceContext(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := strings.ReplaceAll(lines[line-1], "\t", "    ")

	var out strings.Builder
	fmt.Fprintf(&out, "%5d | %s\n", line, text)
	offset := column - 1
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	fmt.Fprintf(&out, "      | %s^", strings.Repeat(" ", offset))
	return out.String()
}
