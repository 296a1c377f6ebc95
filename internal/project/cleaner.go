package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jiangsn/latex-clean/internal/assets"
	"github.com/jiangsn/latex-clean/internal/bib"
	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/merger"
	"github.com/jiangsn/latex-clean/internal/preamble"
	"github.com/jiangsn/latex-clean/internal/reflow"
	"github.com/jiangsn/latex-clean/internal/texfile"
	"github.com/jiangsn/latex-clean/internal/types"
)

const (
	// OutputTexName is the fixed name of the merged document file
	OutputTexName = "main.tex"
	// OutputBibName is the fixed name of the filtered bibliography file
	OutputBibName = "main.bib"
)

// Cleaner runs the full cleaning pipeline for one project.
type Cleaner struct {
	opts types.CleanOptions
}

// NewCleaner creates a Cleaner for the given options. InputDir and
// OutputDir must already be resolved; OutputDir is prepared by Run.
func NewCleaner(opts types.CleanOptions) *Cleaner {
	return &Cleaner{opts: opts}
}

// Run executes the pipeline: merge, preamble relocation, reflow,
// re-indentation, class/style copying, bibliography filtering, image
// copying, and the final document write. Unresolved references inside the
// project degrade to warnings; only a missing main document and
// filesystem-level failures around the output tree abort.
func (c *Cleaner) Run() (*types.CleanResult, error) {
	mainPath := filepath.Join(c.opts.InputDir, c.opts.MainDocument)
	if _, err := os.Stat(mainPath); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound,
			"main document not found", mainPath, err)
	}

	if err := PrepareOutputDir(c.opts.InputDir, c.opts.OutputDir); err != nil {
		return nil, err
	}

	result := &types.CleanResult{OutputDir: c.opts.OutputDir}

	// 步骤 1：合并 TeX 文件并去除注释
	logger.Info("merging TeX files and removing comments")
	visited := map[string]bool{}
	content := merger.Merge(filepath.Join(c.opts.InputDir, c.opts.MainDocument), c.opts.InputDir, visited)

	// 步骤 2：整理导言区声明
	logger.Info("processing preamble and definitions")
	content = preamble.Relocate(content)

	// 步骤 3：重排段落
	logger.Info("reformatting the merged TeX content")
	content = reflow.Reflow(content)

	// 步骤 4：重建缩进
	logger.Info("re-indenting the final TeX code")
	content = reflow.Reindent(content, c.opts.IndentWidth)

	// 步骤 5：处理 .cls 和 .bst 文件
	logger.Info("handling class and style files")
	clsPath := assets.CopyClassFile(content, c.opts.InputDir, c.opts.OutputDir)
	if clsPath != "" {
		result.CopiedClass = filepath.Base(clsPath)
	}
	result.CopiedStyle = assets.CopyStyleFile(content, c.opts.InputDir, c.opts.OutputDir)

	// 步骤 6：过滤参考文献
	logger.Info("handling bibliography data")
	content = c.processBibliography(content, result)

	// 步骤 7：拷贝图片
	logger.Info("copying used image files")
	refs := assets.ImageRefs(content)
	if clsPath != "" {
		for ref := range assets.ClassFileImageRefs(clsPath) {
			refs[ref] = true
		}
	}
	result.CopiedImages, result.MissingImages = assets.CopyImages(refs, c.opts.InputDir, c.opts.OutputDir)

	// 最终写出
	outPath := filepath.Join(c.opts.OutputDir, OutputTexName)
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to write output document", err)
	}
	result.MainTexFile = outPath

	logger.Info("clean project created",
		logger.String("dir", c.opts.OutputDir),
		logger.String("mainTexFile", OutputTexName))
	return result, nil
}

// processBibliography filters the first existing bibliography database the
// document references, writes it as main.bib when it has content, and
// rewrites the document's \bibliography command to match. The returned text
// is unchanged when nothing was written.
func (c *Cleaner) processBibliography(content string, result *types.CleanResult) string {
	citations := bib.Citations(content)
	result.CitationCount = len(citations)
	names := bib.SourceNames(content)

	switch {
	case names == nil:
		logger.Info("no bibliography command found, skipping .bib processing")
		return content
	case len(citations) == 0:
		logger.Info("no cite commands found, skipping .bib processing")
		return content
	}

	for _, name := range names {
		srcPath := filepath.Join(c.opts.InputDir, name+".bib")
		if _, err := os.Stat(srcPath); err != nil {
			continue
		}

		logger.Info("processing bibliography", logger.String("file", filepath.Base(srcPath)))
		bibContent, err := texfile.ReadFile(srcPath)
		if err != nil {
			logger.Warn("failed to read bibliography file",
				logger.String("file", srcPath), logger.Err(err))
			return content
		}

		filtered, kept, ok := bib.Filter(bibContent, citations)
		if !ok {
			return content
		}

		outPath := filepath.Join(c.opts.OutputDir, OutputBibName)
		if err := os.WriteFile(outPath, []byte(filtered), 0644); err != nil {
			logger.Warn("failed to write filtered bibliography", logger.Err(err))
			return content
		}

		result.BibFile = outPath
		result.BibEntryCount = kept
		stem := strings.TrimSuffix(OutputBibName, filepath.Ext(OutputBibName))
		logger.Info("updated bibliography command",
			logger.String("file", OutputBibName), logger.Int("entries", kept))
		return bib.RewriteSource(content, stem)
	}

	logger.Warn("bibliography file not found", logger.String("names", strings.Join(names, ",")))
	return content
}
