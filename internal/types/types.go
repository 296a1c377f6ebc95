// Package types defines core data types and the error model for latex-clean.
package types

// Config 应用配置
type Config struct {
	OutputSuffix  string `json:"output_suffix"`  // 默认输出目录后缀，如 "_clean"
	IndentWidth   int    `json:"indent_width"`   // 重新缩进时每层缩进的空格数
	LogFilePath   string `json:"log_file_path"`  // 日志文件路径，为空则不写文件
	LogLevel      string `json:"log_level"`      // DEBUG / INFO / WARN / ERROR
	EnableConsole bool   `json:"enable_console"` // 是否同时输出到控制台
}

// CleanOptions holds the resolved inputs for one cleaning run.
type CleanOptions struct {
	MainDocument string // 主文档文件名，如 "main.tex"
	InputDir     string // 项目根目录（绝对路径）
	OutputDir    string // 输出目录（绝对路径）
	IndentWidth  int    // 每层缩进空格数
}

// CleanResult summarizes what a cleaning run produced.
type CleanResult struct {
	OutputDir     string   // 输出目录
	MainTexFile   string   // 生成的主 TeX 文件路径
	BibFile       string   // 生成的 .bib 文件路径，未生成则为空
	CopiedClass   string   // 拷贝的 .cls 文件名，未拷贝则为空
	CopiedStyle   string   // 拷贝的 .bst 文件名，未拷贝则为空
	CopiedImages  []string // 拷贝的图片相对路径
	MissingImages []string // 未找到的图片引用
	CitationCount int      // 去重后的引用 key 数量
	BibEntryCount int      // 保留的文献条目数量
}

// ErrorCode 错误码枚举
type ErrorCode string

const (
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrConfig         ErrorCode = "CONFIG_ERROR"
	ErrRootNotFound   ErrorCode = "ROOT_NOT_FOUND"
	ErrOutputConflict ErrorCode = "OUTPUT_CONFLICT"
	ErrInternal       ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
