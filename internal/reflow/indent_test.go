package reflow

import (
	"strings"
	"testing"
)

func TestReindentItemize(t *testing.T) {
	input := "\\begin{itemize}\n\\item first\n\\item second\n\\end{itemize}"
	want := "\\begin{itemize}\n    \\item first\n    \\item second\n\\end{itemize}"

	got := Reindent(input, 4)
	if got != want {
		t.Errorf("Reindent() =\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentNestedEnvironments(t *testing.T) {
	input := "\\begin{itemize}\n\\item outer\n\\begin{enumerate}\n\\item inner\n\\end{enumerate}\n\\end{itemize}"
	got := Reindent(input, 2)

	lines := strings.Split(got, "\n")
	wants := []string{
		"\\begin{itemize}",
		"  \\item outer",
		"  \\begin{enumerate}",
		"    \\item inner",
		"  \\end{enumerate}",
		"\\end{itemize}",
	}
	for i, want := range wants {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestReindentDocumentEnvironmentNotIndented(t *testing.T) {
	input := "\\documentclass{article}\n\\begin{document}\nBody text.\n\\end{document}"
	want := "\\documentclass{article}\n\\begin{document}\nBody text.\n\\end{document}"

	got := Reindent(input, 4)
	if got != want {
		t.Errorf("Reindent() =\n%s\nwant:\n%s", got, want)
	}
}

func TestReindentLeftRightDelimiters(t *testing.T) {
	input := "\\begin{equation}\n\\left(\nx + y\n\\right)\n\\end{equation}"
	got := Reindent(input, 4)

	lines := strings.Split(got, "\n")
	wants := []string{
		"\\begin{equation}",
		"    \\left(",
		"        x + y",
		"    \\right)",
		"\\end{equation}",
	}
	for i, want := range wants {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestReindentNeverNegative(t *testing.T) {
	input := "\\end{itemize}\n\\end{itemize}\ntext\n\\begin{itemize}\n\\item x\n\\end{itemize}"
	got := Reindent(input, 4)

	lines := strings.Split(got, "\n")
	if lines[0] != "\\end{itemize}" || lines[1] != "\\end{itemize}" {
		t.Errorf("stray end markers must stay unindented: %q", lines[:2])
	}
	if lines[2] != "text" {
		t.Errorf("depth went negative: %q", lines[2])
	}
	if lines[4] != "    \\item x" {
		t.Errorf("indentation broken after recovery: %q", lines[4])
	}
}

func TestReindentBlankLinesStayEmpty(t *testing.T) {
	input := "\\begin{itemize}\n\\item a\n\n\\item b\n\\end{itemize}"
	got := Reindent(input, 4)

	lines := strings.Split(got, "\n")
	if lines[2] != "" {
		t.Errorf("blank line was indented: %q", lines[2])
	}
}

func TestReindentBalancedSingleLineKeepsLevel(t *testing.T) {
	input := "\\begin{itemize}\n\\item \\begin{tabular}{l} x \\end{tabular}\n\\end{itemize}"
	got := Reindent(input, 4)

	lines := strings.Split(got, "\n")
	if lines[1] != "    \\item \\begin{tabular}{l} x \\end{tabular}" {
		t.Errorf("balanced line changed depth: %q", lines[1])
	}
}
