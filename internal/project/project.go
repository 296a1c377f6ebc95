// Package project locates a LaTeX project on disk, prepares its output
// directory, and runs the cleaning pipeline end to end.
package project

import (
	"os"
	"path/filepath"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/types"
)

// FindProjectRoot searches upward from startDir for an ancestor directory
// containing mainDoc. It returns a ROOT_NOT_FOUND error when the filesystem
// root is reached without a hit.
func FindProjectRoot(startDir, mainDoc string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", types.NewAppError(types.ErrInvalidInput, "invalid start directory", err)
	}

	for {
		candidate := filepath.Join(current, mainDoc)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", types.NewAppErrorWithDetails(types.ErrRootNotFound,
				"cannot find main document", mainDoc, nil)
		}
		current = parent
	}
}

// DefaultOutputDir returns the default output directory for inputDir: a
// sibling directory named after it with suffix appended.
func DefaultOutputDir(inputDir, suffix string) string {
	return filepath.Join(filepath.Dir(inputDir), filepath.Base(inputDir)+suffix)
}

// PrepareOutputDir removes any pre-existing output tree and recreates it
// empty. Output equal to input is fatal and aborts before any filesystem
// mutation.
func PrepareOutputDir(inputDir, outputDir string) error {
	inAbs, err := filepath.Abs(inputDir)
	if err != nil {
		return types.NewAppError(types.ErrInvalidInput, "invalid input directory", err)
	}
	outAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return types.NewAppError(types.ErrInvalidInput, "invalid output directory", err)
	}

	if inAbs == outAbs {
		return types.NewAppError(types.ErrOutputConflict,
			"the output directory cannot be the same as the input directory", nil)
	}

	if _, err := os.Stat(outAbs); err == nil {
		logger.Info("removing existing output directory", logger.String("dir", outAbs))
		if err := os.RemoveAll(outAbs); err != nil {
			return types.NewAppError(types.ErrInternal, "failed to remove output directory", err)
		}
	}

	if err := os.MkdirAll(outAbs, 0755); err != nil {
		return types.NewAppError(types.ErrInternal, "failed to create output directory", err)
	}

	logger.Info("created clean output directory", logger.String("dir", outAbs))
	return nil
}
