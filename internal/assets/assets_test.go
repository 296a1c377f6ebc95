package assets

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

// ==================== 文档类识别测试 ====================

func TestDocumentClass(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain class",
			text: `\documentclass{article}`,
			want: "article",
		},
		{
			name: "class with options",
			text: `\documentclass[11pt,twocolumn]{IEEEtran}`,
			want: "IEEEtran",
		},
		{
			name: "no documentclass",
			text: `\usepackage{graphicx}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentClass(tt.text); got != tt.want {
				t.Errorf("DocumentClass() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ==================== 类文件与样式文件拷贝测试 ====================

func TestCopyClassFile(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(input, "myconf.cls"), "% custom class")

	src := CopyClassFile(`\documentclass{myconf}`, input, output)
	if src != filepath.Join(input, "myconf.cls") {
		t.Errorf("CopyClassFile = %q, want source path in input tree", src)
	}
	if _, err := os.Stat(filepath.Join(output, "myconf.cls")); err != nil {
		t.Errorf("class file should have been copied: %v", err)
	}
}

func TestCopyClassFileStandardClass(t *testing.T) {
	if src := CopyClassFile(`\documentclass{article}`, t.TempDir(), t.TempDir()); src != "" {
		t.Errorf("CopyClassFile = %q, want empty for a class not in the project", src)
	}
}

func TestCopyStyleFile(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(input, "myrefs.bst"), "% custom style")

	name := CopyStyleFile(`\bibliographystyle{myrefs}`, input, output)
	if name != "myrefs.bst" {
		t.Errorf("CopyStyleFile = %q, want %q", name, "myrefs.bst")
	}
	if _, err := os.Stat(filepath.Join(output, "myrefs.bst")); err != nil {
		t.Errorf("style file should have been copied: %v", err)
	}
}

func TestCopyStyleFileMissing(t *testing.T) {
	if name := CopyStyleFile(`\bibliographystyle{plain}`, t.TempDir(), t.TempDir()); name != "" {
		t.Errorf("CopyStyleFile = %q, want empty when the .bst is absent", name)
	}
}

// ==================== 图片引用与拷贝测试 ====================

func TestImageRefs(t *testing.T) {
	text := `\includegraphics{figs/one.png}
\includegraphics[width=\linewidth]{figs/two.pdf}
\includegraphics[scale=0.5]{ figs/one.png }`

	refs := ImageRefs(text)
	want := map[string]bool{
		"figs/one.png": true,
		"figs/two.pdf": true,
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("ImageRefs() = %v, want %v", refs, want)
	}
}

func TestCopyImages(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(input, "figs", "one.png"), "png-bytes")
	writeFile(t, filepath.Join(input, "two.pdf"), "pdf-bytes")

	refs := map[string]bool{
		"figs/one.png": true,
		"two.pdf":      true,
		"gone.eps":     true,
	}
	copied, missing := CopyImages(refs, input, output)

	if !reflect.DeepEqual(copied, []string{"figs/one.png", "two.pdf"}) {
		t.Errorf("copied = %v, want nested path and flat path", copied)
	}
	if !reflect.DeepEqual(missing, []string{"gone.eps"}) {
		t.Errorf("missing = %v, want [gone.eps]", missing)
	}
	if _, err := os.Stat(filepath.Join(output, "figs", "one.png")); err != nil {
		t.Errorf("nested image directory should be recreated: %v", err)
	}
}

func TestClassFileImageRefs(t *testing.T) {
	input := t.TempDir()
	clsPath := filepath.Join(input, "myconf.cls")
	writeFile(t, clsPath, `\newcommand{\logo}{\includegraphics{logo.pdf}}`)

	refs := ClassFileImageRefs(clsPath)
	if !refs["logo.pdf"] {
		t.Errorf("ClassFileImageRefs() = %v, want logo.pdf", refs)
	}
}
