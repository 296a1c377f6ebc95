package reflow

import (
	"regexp"
	"strings"
)

var (
	reIndentOpen    = regexp.MustCompile(`\\begin\s*\{|\\left\b`)
	reIndentClose   = regexp.MustCompile(`\\end\s*\{|\\right\b`)
	reBeginDocument = regexp.MustCompile(`^\\begin\s*\{\s*document\s*\}`)
)

// Reindent re-renders content with consistent indentation. A nesting
// counter increases on every \begin{ or \left on a line and decreases on
// every \end{ or \right; the net delta is applied after emitting the line,
// except that lines starting with \end or \right dedent first. The document
// environment itself is not indented, and the depth never goes negative
// even when close markers outnumber opens in malformed input. Blank lines
// stay empty and unindented.
func Reindent(content string, width int) string {
	if width <= 0 {
		width = 4
	}
	indentStr := strings.Repeat(" ", width)

	lines := strings.Split(content, "\n")
	indented := make([]string, 0, len(lines))
	level := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			indented = append(indented, "")
			continue
		}

		dedentFirst := strings.HasPrefix(line, `\end`) || strings.HasPrefix(line, `\right`)

		delta := len(reIndentOpen.FindAllString(line, -1)) - len(reIndentClose.FindAllString(line, -1))

		// \begin{document} 本身不缩进，其内容相对它保持零缩进
		if reBeginDocument.MatchString(line) {
			delta--
		}

		if dedentFirst {
			level = max(0, level+delta)
			indented = append(indented, strings.Repeat(indentStr, level)+line)
		} else {
			indented = append(indented, strings.Repeat(indentStr, level)+line)
			level = max(0, level+delta)
		}
	}

	return strings.Join(indented, "\n")
}
