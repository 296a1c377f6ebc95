package preamble

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jiangsn/latex-clean/internal/logger"
)

var reDocClass = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{[^\}]+?\}`)

// deleteSpans removes the given byte ranges from content. Ranges are
// processed in descending start order so earlier offsets stay valid while
// later text shifts; each range is first extended backward over contiguous
// whitespace so no blank line is left behind.
//
// Spans may overlap: a declaration nested inside a macro body is recorded
// both on its own and as part of the enclosing definition. Deleting the
// inner span first shortens the buffer, so the outer span's end is clamped
// to the current length and empty ranges are skipped.
func deleteSpans(content string, spans []span) string {
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	buf := []byte(content)
	for _, sp := range sorted {
		start := sp.start
		end := min(sp.end, len(buf))
		if start >= end {
			continue
		}
		for start > 0 && isSpaceByte(buf[start-1]) {
			start--
		}
		buf = append(buf[:start], buf[end:]...)
	}
	return string(buf)
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// sortedValues returns the map's values ordered by key.
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return values
}

// Relocate extracts all package, macro, and color declarations from
// content, removes every original occurrence, and inserts one deduplicated
// sorted preamble block immediately after \documentclass. When no
// \documentclass exists the block is prepended with a warning; when there
// is nothing to insert the text passes through unchanged.
func Relocate(content string) string {
	sortedPackages, packageCoords := extractPackages(content)
	usedCommands, commandCoords := extractCommands(content)
	usedColors, colorCoords := extractColors(content)

	var all []span
	all = append(all, packageCoords...)
	all = append(all, commandCoords...)
	all = append(all, colorCoords...)
	body := deleteSpans(content, all)

	// 按组拼装：宏包、宏定义、颜色定义，组间空行分隔
	var groups []string
	if len(sortedPackages) > 0 {
		groups = append(groups, strings.Join(sortedPackages, "\n"))
	}
	if len(usedCommands) > 0 {
		groups = append(groups, strings.Join(sortedValues(usedCommands), "\n"))
	}
	if len(usedColors) > 0 {
		groups = append(groups, strings.Join(sortedValues(usedColors), "\n"))
	}
	block := strings.Join(groups, "\n\n")

	if block == "" {
		logger.Debug("no preamble declarations to move")
		return body
	}

	if loc := reDocClass.FindStringIndex(body); loc != nil {
		logger.Info("inserting cleaned preamble after documentclass")
		return body[:loc[1]] + "\n\n" + block + body[loc[1]:]
	}

	logger.Warn("documentclass not found, placing declarations at top of file")
	return block + "\n\n" + body
}
