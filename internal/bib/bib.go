// Package bib filters a BibTeX database down to the entries actually cited
// by the cleaned document, preserving @string macros unconditionally.
package bib

import (
	"regexp"
	"strings"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/scanner"
)

// entryTypes are the recognized BibTeX entry kinds.
var entryTypes = []string{
	"article", "book", "inproceedings", "phdthesis", "mastersthesis",
	"inbook", "incollection", "proceedings", "techreport", "unpublished",
	"misc",
}

var (
	// @string values may nest braces, so the macro body is captured with
	// the balanced-brace scanner instead of a regex.
	reStringHead = regexp.MustCompile(`(?i)@string\s*(\{)`)
	// An entry runs from @type{key, through the next line that closes the
	// entry with a brace at line start.
	reEntry = regexp.MustCompile(`(?is)@(?:` + strings.Join(entryTypes, "|") + `)\s*\{([^,]+),.*?\n\}`)

	reCite         = regexp.MustCompile(`\\cite(?:\[.*?\])?\s*\{(.*?)\}`)
	reBibliography = regexp.MustCompile(`\\bibliography\s*\{\s*(.*?)\s*\}`)
	reBlankRun     = regexp.MustCompile(`\n\s*\n`)
)

// Citations collects the set of distinct citation keys referenced anywhere
// in text. Comma-separated multi-key forms contribute each key.
func Citations(text string) map[string]bool {
	keys := map[string]bool{}
	for _, m := range reCite.FindAllStringSubmatch(text, -1) {
		for _, key := range strings.Split(m[1], ",") {
			key = strings.TrimSpace(key)
			if key != "" {
				keys[key] = true
			}
		}
	}
	return keys
}

// SourceNames returns the bibliography database names listed by the
// document's \bibliography command, or nil when there is none.
func SourceNames(text string) []string {
	m := reBibliography.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var names []string
	for _, name := range strings.Split(m[1], ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RewriteSource rewrites the document's \bibliography command to reference
// newName. Called only after the filtered database was actually written.
func RewriteSource(text, newName string) string {
	return reBibliography.ReplaceAllString(text, `\bibliography{`+newName+`}`)
}

// stringMacros extracts every @string declaration verbatim, including
// brace-nested values.
func stringMacros(content string) []string {
	var macros []string
	for _, m := range reStringHead.FindAllStringSubmatchIndex(content, -1) {
		end := scanner.MatchingBrace(content, m[2])
		if end == scanner.NotFound {
			continue
		}
		macros = append(macros, content[m[0]:end+1])
	}
	return macros
}

// Filter keeps only the entries whose key appears in citations, plus every
// @string macro, strips comments, and normalizes blank lines. The boolean
// is false when nothing at all was kept; the caller must then skip the
// write and leave the document's bibliography reference alone.
func Filter(bibContent string, citations map[string]bool) (string, int, bool) {
	macros := stringMacros(bibContent)
	if len(macros) > 0 {
		logger.Info("preserving @string macros", logger.Int("count", len(macros)))
	}

	var kept []string
	for _, m := range reEntry.FindAllStringSubmatch(bibContent, -1) {
		key := strings.TrimSpace(m[1])
		if citations[key] {
			logger.Debug("keeping bibliography entry", logger.String("key", key))
			kept = append(kept, m[0])
		}
	}

	if len(kept) == 0 && len(macros) == 0 {
		logger.Warn("no cited entries or @string macros found, skipping bibliography")
		return "", 0, false
	}

	parts := append(append([]string{}, macros...), kept...)
	content := strings.Join(parts, "\n\n")

	// 去掉注释并清理行尾空白
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if idx := scanner.UnescapedPercentIndex(line); idx >= 0 {
			line = line[:idx]
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	content = reBlankRun.ReplaceAllString(content, "\n\n")

	logger.Info("filtered bibliography",
		logger.Int("citations", len(citations)),
		logger.Int("entries", len(kept)))
	return strings.TrimSpace(content), len(kept), true
}
