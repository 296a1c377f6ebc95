// Package preamble extracts \usepackage, macro, and color declarations from
// a merged document, deduplicates them by actual usage, and reassembles a
// single sorted preamble block after \documentclass.
package preamble

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/scanner"
)

// span is a half-open byte range [start, end) in the extraction-time text.
// Spans are only valid against that snapshot; see deleteSpans.
type span struct {
	start int
	end   int
}

var (
	reUsepackage  = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{[^\}]+\}`)
	rePackageName = regexp.MustCompile(`\\usepackage(?:\[.*?\])?\{([^\}]+)\}`)

	// Definition heads: the body's opening brace is captured so the
	// balanced-brace scanner can take over from its position.
	reCommandHead = regexp.MustCompile(`\\(?:renew|new|provide)command\s*\*?\s*\{\s*\\(\w+)\s*\}((?:\[[^\]]*\]){0,2})\s*(\{)`)
	reColorHead   = regexp.MustCompile(`\\definecolor\s*\{\s*(\w+)\s*\}\s*\{\s*(\w+)\s*\}\s*(\{)`)
)

// extractPackages collects every \usepackage command, deduplicates by exact
// command text, and returns the unique commands sorted by primary package
// name together with the spans of all original occurrences.
//
// A multi-package argument like {pkg1,pkg2} sorts by its first name only, so
// the same packages listed in a different grouping stay distinct commands.
func extractPackages(content string) ([]string, []span) {
	var coords []span
	names := map[string]string{} // command text -> primary package name
	var order []string           // first-seen order, kept for stable ties

	for _, loc := range reUsepackage.FindAllStringIndex(content, -1) {
		cmd := content[loc[0]:loc[1]]
		m := rePackageName.FindStringSubmatch(cmd)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(strings.Split(m[1], ",")[0])
		if _, seen := names[cmd]; !seen {
			order = append(order, cmd)
		}
		names[cmd] = name
		coords = append(coords, span{loc[0], loc[1]})
	}

	if len(names) == 0 {
		return nil, nil
	}

	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool {
		return names[sorted[i]] < names[sorted[j]]
	})

	logger.Info("collected usepackage commands",
		logger.Int("total", len(coords)),
		logger.Int("unique", len(sorted)))
	return sorted, coords
}

// definition is one recorded macro or color definition occurrence.
type definition struct {
	name string
	text string
	span span
}

// extractDefinitions records every definition matched by head, using the
// balanced-brace scanner to find the body's end. usagePrefix is the regex
// fragment preceding the name in a usage occurrence: `\\` for macros
// (usages look like \name), `\b` for colors (bare word).
//
// The returned map keeps only definitions whose name occurs more than once
// in the whole text (the definition itself counts as one); when a name is
// defined repeatedly the later text wins. The spans cover ALL occurrences,
// kept or not, so every original site is removed.
func extractDefinitions(content, kind string, head *regexp.Regexp, usagePrefix string) (map[string]string, []span) {
	var defs []definition
	for _, m := range head.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		bodyOpen := m[6] // group 3: the body's opening brace
		bodyClose := scanner.MatchingBrace(content, bodyOpen)
		if bodyClose == scanner.NotFound {
			continue
		}
		defs = append(defs, definition{
			name: name,
			text: content[m[0] : bodyClose+1],
			span: span{m[0], bodyClose + 1},
		})
	}

	if len(defs) == 0 {
		logger.Debug("no definitions found", logger.String("kind", kind))
		return nil, nil
	}

	used := map[string]string{}
	for _, d := range defs {
		re := regexp.MustCompile(usagePrefix + d.name + `\b`)
		count := len(re.FindAllStringIndex(content, -1))
		// 定义本身算一次出现，count > 1 才说明文档真正用到了它
		if count > 1 {
			used[d.name] = d.text
		}
	}

	coords := make([]span, len(defs))
	for i, d := range defs {
		coords[i] = d.span
	}

	logger.Info("checked definition usage",
		logger.String("kind", kind),
		logger.Int("total", len(defs)),
		logger.Int("used", len(used)))
	return used, coords
}

// extractCommands extracts \newcommand, \renewcommand, and \providecommand
// definitions.
func extractCommands(content string) (map[string]string, []span) {
	return extractDefinitions(content, "command", reCommandHead, `\\`)
}

// extractColors extracts \definecolor definitions.
func extractColors(content string) (map[string]string, []span) {
	return extractDefinitions(content, "color", reColorHead, `\b`)
}
