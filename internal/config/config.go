// Package config provides configuration management for latex-clean.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jiangsn/latex-clean/internal/logger"
	"github.com/jiangsn/latex-clean/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "latex-clean-config.json"
	// DefaultOutputSuffix is appended to the input directory name when no
	// output directory is given
	DefaultOutputSuffix = "_clean"
	// DefaultIndentWidth is the number of spaces per indentation level
	DefaultIndentWidth = 4
	// DefaultLogLevel is the default minimum log level
	DefaultLogLevel = "INFO"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "latex-clean", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OutputSuffix:  DefaultOutputSuffix,
		IndentWidth:   DefaultIndentWidth,
		LogFilePath:   "",
		LogLevel:      DefaultLogLevel,
		EnableConsole: true, // 命令行工具默认输出进度到控制台
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, default values are used.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults")
			return nil
		}
		logger.Error("failed to read config file", err)
		return types.NewAppError(types.ErrConfig, "failed to read config file", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Error("failed to parse config file", err)
		return types.NewAppError(types.ErrConfig, "failed to parse config file", err)
	}

	// 非法值回落到默认值
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = DefaultIndentWidth
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}

	m.config = cfg
	logger.Debug("configuration loaded",
		logger.String("outputSuffix", cfg.OutputSuffix),
		logger.Int("indentWidth", cfg.IndentWidth))
	return nil
}

// Save writes the current configuration to the config file.
func (m *ConfigManager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to serialize config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Debug("configuration saved", logger.String("path", m.configPath))
	return nil
}

// Get returns the current configuration
func (m *ConfigManager) Get() *types.Config {
	return m.config
}

// ConfigPath returns the path of the backing config file
func (m *ConfigManager) ConfigPath() string {
	return m.configPath
}
