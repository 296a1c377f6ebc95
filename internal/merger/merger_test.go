package merger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates a file under dir, creating parent directories as needed.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestMergeSingleFile(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.tex", "Hello % comment\nWorld\n")

	got := Merge(main, dir, map[string]bool{})
	if strings.Contains(got, "comment") {
		t.Errorf("comments not stripped: %q", got)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "World") {
		t.Errorf("content missing: %q", got)
	}
}

func TestMergeResolvesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sections/intro.tex", "INTRO CONTENT\n")
	main := writeFile(t, dir, "main.tex", "Before\n\\input{sections/intro}\nAfter\n")

	got := Merge(main, dir, map[string]bool{})
	if !strings.Contains(got, "INTRO CONTENT") {
		t.Errorf("included content missing: %q", got)
	}
	if strings.Contains(got, `\input`) {
		t.Errorf("inclusion command survived merging: %q", got)
	}
}

func TestMergeIncludeTreatedLikeInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chapter.tex", "CHAPTER BODY\n")
	main := writeFile(t, dir, "main.tex", "\\include{chapter}\n")

	got := Merge(main, dir, map[string]bool{})
	if !strings.Contains(got, "CHAPTER BODY") {
		t.Errorf("\\include not resolved: %q", got)
	}
}

func TestMergeMissingIncludePlaceholder(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.tex", "Start\n\\input{ghost}\nEnd\n")

	got := Merge(main, dir, map[string]bool{})
	if !strings.Contains(got, "% --- INCLUDED FILE NOT FOUND: ghost.tex ---") {
		t.Errorf("missing include placeholder absent: %q", got)
	}
	if !strings.Contains(got, "Start") || !strings.Contains(got, "End") {
		t.Errorf("surrounding content lost: %q", got)
	}
}

func TestMergeCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tex", "A-TOP\n\\input{b}\nA-BOTTOM\n")
	writeFile(t, dir, "b.tex", "B-TOP\n\\input{a}\nB-BOTTOM\n")

	got := Merge(filepath.Join(dir, "a.tex"), dir, map[string]bool{})
	if !strings.Contains(got, "% --- SKIPPING RECURSIVE INCLUDE OF a.tex ---") {
		t.Errorf("cycle placeholder absent: %q", got)
	}
	if strings.Count(got, "A-TOP") != 1 {
		t.Errorf("cyclic file merged more than once: %q", got)
	}
	if !strings.Contains(got, "B-BOTTOM") {
		t.Errorf("cyclic partner content missing: %q", got)
	}
}

func TestMergeSiblingDuplicateMergesTwice(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub.tex", "SUBTEXT\n")
	main := writeFile(t, dir, "main.tex", "\\input{sub}\n\\input{sub}\n")

	got := Merge(main, dir, map[string]bool{})
	if n := strings.Count(got, "SUBTEXT"); n != 2 {
		t.Errorf("sibling duplicate include merged %d times, want 2: %q", n, got)
	}
}

func TestMergeResolvesRelativeToRootAsFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.tex", "SHARED\n")
	writeFile(t, dir, "sections/body.tex", "\\input{shared}\n")
	main := writeFile(t, dir, "main.tex", "\\input{sections/body}\n")

	got := Merge(main, dir, map[string]bool{})
	if !strings.Contains(got, "SHARED") {
		t.Errorf("project-root fallback resolution failed: %q", got)
	}
}

func TestMergeIndependentRunsDoNotInterfere(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.tex", "BODY\n")

	first := Merge(main, dir, map[string]bool{})
	second := Merge(main, dir, map[string]bool{})
	if first != second {
		t.Errorf("independent merge runs differ: %q vs %q", first, second)
	}
	if strings.Contains(second, "SKIPPING") {
		t.Errorf("visited state leaked across runs: %q", second)
	}
}

func TestMergeCommentedOutIncludeIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "real.tex", "REAL\n")
	main := writeFile(t, dir, "main.tex", "% \\input{real}\nText\n")

	got := Merge(main, dir, map[string]bool{})
	if strings.Contains(got, "REAL") {
		t.Errorf("commented-out include was followed: %q", got)
	}
}
