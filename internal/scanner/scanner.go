// Package scanner implements the low-level text scanning primitives shared
// by every latex-clean extractor: balanced-brace matching and comment
// removal. Both operate on byte offsets so results can be used directly as
// slice boundaries on the scanned string.
package scanner

import (
	"regexp"
	"strings"
)

// NotFound is the sentinel returned when braces never balance.
const NotFound = -1

// MatchingBrace returns the index of the closing brace that matches the
// opening brace at openIdx, tolerating arbitrary nesting. It returns
// NotFound when openIdx does not point at '{' or when the text ends before
// the braces balance. Callers must check the sentinel before slicing.
//
// Escaped braces (\{ \}) are counted like ordinary braces; macro bodies in
// practice keep them balanced and a stricter rule would reject more input
// than it fixes.
func MatchingBrace(text string, openIdx int) int {
	if openIdx < 0 || openIdx >= len(text) || text[openIdx] != '{' {
		return NotFound
	}
	level := 1
	for i := openIdx + 1; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
		}
		if level == 0 {
			return i
		}
	}
	return NotFound
}

// reBlockComment matches a whole comment environment including both
// delimiter lines and a trailing newline.
var reBlockComment = regexp.MustCompile(`(?s)\\begin\s*\{\s*comment\s*\}.*?\\end\s*\{\s*comment\s*\}\s*\n?`)

// UnescapedPercentIndex returns the index of the first comment marker in
// line that is not immediately preceded by a backslash, or -1 if none.
func UnescapedPercentIndex(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// StripLineComments removes every unescaped % and the rest of its line,
// including the line's newline. An escaped marker (\%) is literal text.
func StripLineComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '%' && (i == 0 || text[i-1] != '\\') {
			j := i
			for j < len(text) && text[j] != '\n' {
				j++
			}
			if j < len(text) {
				j++ // consume the newline as well
			}
			i = j
			continue
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}

// StripBlockComments removes every comment environment in its entirety.
func StripBlockComments(text string) string {
	return reBlockComment.ReplaceAllString(text, "")
}

// StripComments removes line comments and then block-comment environments.
// Line comments go first so a commented-out environment delimiter cannot
// open a block. Safe to apply before any other structural parsing; no other
// component re-implements comment detection.
func StripComments(text string) string {
	return StripBlockComments(StripLineComments(text))
}
