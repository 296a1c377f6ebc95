package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ==================== 日志级别测试 ====================

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// ==================== 文件输出测试 ====================

func TestFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "latex-clean.log")
	l, err := NewDefaultLogger(&Config{
		LogFilePath:   logPath,
		MaxFileSize:   1024 * 1024,
		MaxBackups:    1,
		Level:         LevelInfo,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger failed: %v", err)
	}

	l.Debug("below threshold")
	l.Info("merging files", String("file", "main.tex"), Int("depth", 2))
	l.Error("read failed", errors.New("permission denied"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file failed: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "below threshold") {
		t.Error("debug message should be filtered at INFO level")
	}
	if !strings.Contains(content, "[INFO] merging files file=main.tex depth=2") {
		t.Errorf("info entry missing or malformed:\n%s", content)
	}
	if !strings.Contains(content, `[ERROR] read failed error="permission denied"`) {
		t.Errorf("error entry missing or malformed:\n%s", content)
	}
}

func TestSetLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	l, err := NewDefaultLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024 * 1024,
		MaxBackups:  1,
		Level:       LevelWarn,
	})
	if err != nil {
		t.Fatalf("NewDefaultLogger failed: %v", err)
	}

	l.Info("hidden")
	l.SetLevel(LevelDebug)
	l.Info("visible")
	l.Close()

	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "hidden") {
		t.Error("message below level should not be written")
	}
	if !strings.Contains(string(data), "visible") {
		t.Error("message at or above level should be written")
	}
}

// ==================== 全局日志测试 ====================

func TestGlobalLoggerUninitializedIsNoop(t *testing.T) {
	SetGlobalLogger(nil)
	// 未初始化时不应崩溃
	Debug("noop")
	Info("noop")
	Warn("noop")
	Error("noop", errors.New("ignored"))
}
