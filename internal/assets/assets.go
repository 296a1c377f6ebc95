// Package assets copies the auxiliary files a cleaned project needs to
// stand alone: a custom class file, a bibliography style file, and every
// referenced image. Missing files are warnings, never failures.
package assets

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/texfile"
)

var (
	reDocClassName = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{([^\}]+)\}`)
	reBibStyle     = regexp.MustCompile(`\\bibliographystyle\s*\{\s*(.*?)\s*\}`)
	reIncludeGfx   = regexp.MustCompile(`\\includegraphics(?:\[.*?\])?\s*\{\s*(.*?)\s*\}`)
)

// DocumentClass returns the class name declared by \documentclass, or "".
func DocumentClass(text string) string {
	if m := reDocClassName.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// CopyClassFile copies <class>.cls from inputDir to outputDir when the
// document uses a custom class present in the project. It returns the
// copied file's path in the input tree, or "" when no file was copied.
func CopyClassFile(text, inputDir, outputDir string) string {
	className := DocumentClass(text)
	if className == "" {
		logger.Warn("no documentclass found, cannot check for a .cls file")
		return ""
	}

	clsName := className + ".cls"
	src := filepath.Join(inputDir, clsName)
	if !fileExists(src) {
		logger.Info("using standard document class", logger.String("class", className))
		return ""
	}

	if err := copyFile(src, filepath.Join(outputDir, clsName)); err != nil {
		logger.Warn("failed to copy class file", logger.String("file", clsName), logger.Err(err))
		return ""
	}
	logger.Info("copied custom class file", logger.String("file", clsName))
	return src
}

// CopyStyleFile copies <style>.bst from inputDir to outputDir when the
// document names a bibliography style present in the project. It returns
// the copied file name, or "".
func CopyStyleFile(text, inputDir, outputDir string) string {
	m := reBibStyle.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	bstName := m[1] + ".bst"
	src := filepath.Join(inputDir, bstName)
	if !fileExists(src) {
		logger.Warn("bibliography style file not found", logger.String("file", bstName))
		return ""
	}

	if err := copyFile(src, filepath.Join(outputDir, bstName)); err != nil {
		logger.Warn("failed to copy style file", logger.String("file", bstName), logger.Err(err))
		return ""
	}
	logger.Info("copied bibliography style file", logger.String("file", bstName))
	return bstName
}

// ImageRefs returns the set of image paths referenced by \includegraphics.
func ImageRefs(text string) map[string]bool {
	refs := map[string]bool{}
	for _, m := range reIncludeGfx.FindAllStringSubmatch(text, -1) {
		if path := strings.TrimSpace(m[1]); path != "" {
			refs[path] = true
		}
	}
	return refs
}

// ClassFileImageRefs scans a class file for additional image references.
// Read failures degrade to an empty set with a warning.
func ClassFileImageRefs(clsPath string) map[string]bool {
	content, err := texfile.ReadFile(clsPath)
	if err != nil {
		logger.Warn("could not read class file for image scan",
			logger.String("file", filepath.Base(clsPath)), logger.Err(err))
		return nil
	}
	refs := ImageRefs(content)
	if len(refs) > 0 {
		logger.Info("found image references in class file",
			logger.String("file", filepath.Base(clsPath)),
			logger.Int("count", len(refs)))
	}
	return refs
}

// CopyImages copies every referenced image from inputDir to outputDir,
// recreating each image's relative directory. It returns the copied and
// missing reference lists; iteration is sorted for deterministic output.
func CopyImages(refs map[string]bool, inputDir, outputDir string) (copied, missing []string) {
	paths := make([]string, 0, len(refs))
	for p := range refs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		src := filepath.Join(inputDir, rel)
		if !fileExists(src) {
			logger.Warn("image file not found", logger.String("file", rel))
			missing = append(missing, rel)
			continue
		}

		dst := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			logger.Warn("failed to create image directory", logger.String("file", rel), logger.Err(err))
			missing = append(missing, rel)
			continue
		}
		if err := copyFile(src, dst); err != nil {
			logger.Warn("failed to copy image", logger.String("file", rel), logger.Err(err))
			missing = append(missing, rel)
			continue
		}
		logger.Info("copied image", logger.String("file", rel))
		copied = append(copied, rel)
	}

	logger.Info("image copying finished",
		logger.Int("copied", len(copied)),
		logger.Int("missing", len(missing)))
	return copied, missing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// copyFile copies src to dst preserving the file mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
