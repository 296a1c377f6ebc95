// Package reflow reformats merged LaTeX text: paragraph unwrapping outside
// protected environments, caption collapsing inside them, and
// nesting-driven re-indentation.
package reflow

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jiangsn/latex-clean/internal/logger"
)

// protectedEnvironments lists the environments whose internal line wrapping
// must survive paragraph merging.
var protectedEnvironments = []string{
	"figure", "figure*",
	"table", "table*",
	"tabular",
	"verbatim", "Verbatim", "lstlisting",
	"equation", "equation*",
	"align", "align*",
	"itemize", "enumerate", "description",
}

var (
	reProtectedBegin = regexp.MustCompile(`\\begin\s*\{\s*(` + envAlternation() + `)\s*\}`)
	reBlankRun       = regexp.MustCompile(`\n\s*\n`)
	reDoubleBlank    = regexp.MustCompile(`(\n\n)+`)
	reSpaceRun       = regexp.MustCompile(` +`)
	reCaption        = regexp.MustCompile(`(?s)(\\caption(?:\[.*?\])?\s*\{)\s*(.*?)\s*(\})`)
)

func envAlternation() string {
	quoted := make([]string, len(protectedEnvironments))
	for i, env := range protectedEnvironments {
		quoted[i] = regexp.QuoteMeta(env)
	}
	return strings.Join(quoted, "|")
}

// segment is one element of the alternating free/protected split.
type segment struct {
	text      string
	protected bool
}

// splitProtected splits content into alternating free-text and protected
// segments. A protected segment runs from \begin{env} through the first
// \end with the same environment name; a begin whose end never appears is
// left in free text.
func splitProtected(content string) []segment {
	var segs []segment
	freeStart := 0
	pos := 0

	for pos < len(content) {
		m := reProtectedBegin.FindStringSubmatchIndex(content[pos:])
		if m == nil {
			break
		}
		beginStart := pos + m[0]
		beginEnd := pos + m[1]
		name := content[pos+m[2] : pos+m[3]]

		reEnd := regexp.MustCompile(`\\end\s*\{\s*` + regexp.QuoteMeta(name) + `\s*\}`)
		em := reEnd.FindStringIndex(content[beginEnd:])
		if em == nil {
			logger.Warn("unclosed protected environment left as free text",
				logger.String("environment", name))
			pos = beginEnd
			continue
		}
		spanEnd := beginEnd + em[1]

		if beginStart > freeStart {
			segs = append(segs, segment{text: content[freeStart:beginStart]})
		}
		segs = append(segs, segment{text: content[beginStart:spanEnd], protected: true})
		freeStart = spanEnd
		pos = spanEnd
	}

	if freeStart < len(content) {
		segs = append(segs, segment{text: content[freeStart:]})
	}
	return segs
}

// mergeLines collapses every newline that neither follows another newline
// nor precedes a backslash command or another newline into a single space.
// This unwraps hard-wrapped paragraphs while keeping paragraph breaks and
// command-initial lines intact.
func mergeLines(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			afterNewline := i > 0 && text[i-1] == '\n'
			beforeBreak := i+1 < len(text) && (text[i+1] == '\\' || text[i+1] == '\n')
			if !afterNewline && !beforeBreak {
				sb.WriteByte(' ')
				continue
			}
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}

// collapseCaptions rewrites every \caption{...} (with optional short form)
// inside a protected block so its argument sits on one line with single
// spaces. The rest of the block is preserved byte for byte.
func collapseCaptions(block string) string {
	return replaceAllSubmatchFunc(reCaption, block, func(groups []string) string {
		text := reSpaceRun.ReplaceAllString(mergeLines(groups[2]), " ")
		return groups[1] + strings.TrimSpace(text) + groups[3]
	})
}

// replaceAllSubmatchFunc is ReplaceAllStringFunc with access to submatches.
func replaceAllSubmatchFunc(re *regexp.Regexp, text string, repl func(groups []string) string) string {
	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(text[last:m[0]])
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = text[m[2*i]:m[2*i+1]]
			}
		}
		sb.WriteString(repl(groups))
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// Reflow normalizes blank lines and merges hard-wrapped paragraphs into
// single logical lines, leaving protected environments untouched apart from
// caption collapsing. Line-leading whitespace is stripped globally first;
// indentation is reconstructed afterwards by Reindent.
func Reflow(content string) string {
	// 先去掉每行的前导缩进，缩进稍后统一重建
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeftFunc(line, unicode.IsSpace)
	}
	content = strings.Join(lines, "\n")

	// 空行归一：连续空行压缩为一个
	content = reBlankRun.ReplaceAllString(content, "\n\n")
	content = reDoubleBlank.ReplaceAllString(content, "\n\n")

	segs := splitProtected(content)
	var sb strings.Builder
	sb.Grow(len(content))
	for _, seg := range segs {
		if seg.protected {
			sb.WriteString(collapseCaptions(seg.text))
			continue
		}
		merged := mergeLines(seg.text)
		sb.WriteString(reSpaceRun.ReplaceAllString(merged, " "))
	}

	logger.Debug("reflowed document",
		logger.Int("segments", len(segs)),
		logger.Int("length", sb.Len()))
	return sb.String()
}
