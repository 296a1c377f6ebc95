// Package merger resolves \input and \include commands, splicing referenced
// files into a single flat document. Comments are stripped per merged unit
// and a visited set guards against inclusion cycles.
package merger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/scanner"
	"github.com/jiangsn/latex-clean/internal/texfile"
)

// reInput matches \input{...} and \include{...}; the two are treated
// identically.
var reInput = regexp.MustCompile(`\\(?:input|include)\s*\{\s*(.*?)\s*\}`)

// Merge recursively merges the file at texPath into a single string. Files
// already present in visited are replaced by a placeholder comment instead
// of being merged again, so inclusion cycles terminate. Missing or
// unreadable files likewise degrade to placeholder comments; Merge itself
// never fails.
//
// The visited set tracks the current recursion chain and is threaded
// through explicitly so that independent merge runs cannot interfere. A
// path is marked before its content is scanned for sub-inclusions and
// released once its merge completes: a cycle is caught on re-entry, while a
// file legitimately included twice by different commands merges twice.
func Merge(texPath, projectRoot string, visited map[string]bool) string {
	key := canonical(texPath)
	if visited[key] {
		return fmt.Sprintf("%% --- SKIPPING RECURSIVE INCLUDE OF %s ---\n", filepath.Base(texPath))
	}
	visited[key] = true
	defer delete(visited, key)

	content, err := texfile.ReadFile(texPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("%% --- FILE NOT FOUND: %s ---\n", texPath)
		}
		return fmt.Sprintf("%% --- ERROR READING FILE: %s, %v ---\n", texPath, err)
	}

	// Remove comments before resolving inputs, so commented-out \input
	// lines are never followed.
	content = scanner.StripComments(content)

	baseDir := filepath.Dir(texPath)
	return reInput.ReplaceAllStringFunc(content, func(cmd string) string {
		name := strings.TrimSpace(reInput.FindStringSubmatch(cmd)[1])
		return resolveInclude(name, baseDir, projectRoot, visited)
	})
}

// resolveInclude locates one included file and merges it, or returns a
// placeholder comment when it cannot be found.
func resolveInclude(name, baseDir, projectRoot string, visited map[string]bool) string {
	fileName := name
	if !strings.HasSuffix(fileName, ".tex") {
		fileName += ".tex"
	}

	// 先相对当前文件目录查找，再相对项目根目录查找
	relativePath := filepath.Join(baseDir, fileName)
	rootPath := filepath.Join(projectRoot, fileName)

	finalPath := relativePath
	if !fileExists(relativePath) {
		finalPath = rootPath
	}

	if !fileExists(finalPath) {
		logger.Warn("included file not found", logger.String("file", fileName))
		return fmt.Sprintf("%% --- INCLUDED FILE NOT FOUND: %s ---\n", fileName)
	}

	if rel, err := filepath.Rel(projectRoot, finalPath); err == nil {
		logger.Info("merging included file", logger.String("file", rel))
	} else {
		logger.Info("merging included file", logger.String("file", finalPath))
	}
	return Merge(finalPath, projectRoot, visited)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// canonical normalizes a path for the visited set so the same file reached
// through different spellings is detected as a repeat.
func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}
