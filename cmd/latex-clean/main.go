// Command latex-clean flattens a multi-file LaTeX project into a single
// self-contained, deduplicated, consistently formatted output tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jiangsn/latex-clean/internal/config"
	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/project"
	"github.com/jiangsn/latex-clean/internal/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	inputDir    string
	outputDir   string
	cfgFile     string
	indentWidth int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "latex-clean <main-document>",
	Short: "Flatten a LaTeX project into a single clean .tex file",
	Long: `latex-clean merges a LaTeX project (root document plus recursively
included sub-files) into one self-contained output tree:

  - \input/\include references are spliced in place, comments removed
  - \usepackage, \newcommand, and \definecolor declarations are
    deduplicated, filtered by usage, and collected after \documentclass
  - paragraphs are unwrapped outside protected environments and the
    document is re-indented consistently
  - the bibliography is filtered down to the cited entries, and class,
    style, and image files are copied alongside

Examples:
  latex-clean main.tex                  Clean the project in the current dir
  latex-clean main.tex -i paper -o out  Explicit input and output dirs`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputDir, "input-dir", "i", ".", "root directory of the LaTeX project")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: \"<input-dir>_clean\")")
	rootCmd.Flags().IntVar(&indentWidth, "indent", 0, "spaces per indentation level (default from config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/latex-clean/latex-clean-config.json)")
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func run(cmd *cobra.Command, args []string) error {
	cfgMgr, err := config.NewConfigManager(cfgFile)
	if err != nil {
		return err
	}
	if err := cfgMgr.Load(); err != nil {
		return err
	}
	cfg := cfgMgr.Get()

	logLevel := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		logLevel = logger.LevelDebug
	}
	if err := logger.Init(&logger.Config{
		LogFilePath:   cfg.LogFilePath,
		MaxFileSize:   10 * 1024 * 1024,
		MaxBackups:    3,
		Level:         logLevel,
		EnableConsole: cfg.EnableConsole,
	}); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to initialize logger", err)
	}
	defer logger.Close()

	mainDoc := args[0]
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return types.NewAppError(types.ErrInvalidInput, "invalid input directory", err)
	}

	// 主文档不在指定目录时，从当前目录向上查找项目根目录
	if _, statErr := os.Stat(filepath.Join(in, mainDoc)); statErr != nil {
		logger.Warn("main document not found in input directory, searching upwards",
			logger.String("document", mainDoc),
			logger.String("dir", in))
		root, findErr := project.FindProjectRoot(".", mainDoc)
		if findErr != nil {
			return findErr
		}
		in = root
		logger.Info("found project root", logger.String("dir", in))
	}

	out := outputDir
	if out == "" {
		out = project.DefaultOutputDir(in, cfg.OutputSuffix)
	}
	if out, err = filepath.Abs(out); err != nil {
		return types.NewAppError(types.ErrInvalidInput, "invalid output directory", err)
	}

	width := cfg.IndentWidth
	if indentWidth > 0 {
		width = indentWidth
	}

	cleaner := project.NewCleaner(types.CleanOptions{
		MainDocument: mainDoc,
		InputDir:     in,
		OutputDir:    out,
		IndentWidth:  width,
	})

	result, err := cleaner.Run()
	if err != nil {
		return err
	}

	fmt.Printf("\nSuccess! Clean project created at: %s\n", result.OutputDir)
	fmt.Printf("  - Main TeX file: %s\n", project.OutputTexName)
	if result.BibFile != "" {
		fmt.Printf("  - Bibliography: %s (%d entries)\n", project.OutputBibName, result.BibEntryCount)
	}
	if len(result.CopiedImages) > 0 {
		fmt.Printf("  - Images copied: %d\n", len(result.CopiedImages))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
