package logwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultFileName    = "application.log"
	DefaultMaxFileSize = 10 * 1024 * 1024
	DefaultMaxFiles    = 5
)

// Config defines the writer configuration parameters.
// A writer keeps its own copy; changing a Config after New has no effect on the writer.
type Config struct {
	Directory         string `json:"directory" toml:"directory" mapstructure:"directory"`                            // Directory for the active and rotated files
	FileName          string `json:"file_name" toml:"file_name" mapstructure:"file_name"`                            // Base name of the active file
	MaxFileSize       int64  `json:"max_file_size" toml:"max_file_size" mapstructure:"max_file_size"`                // Size in bytes at which the active file is rotated
	MaxFiles          int64  `json:"max_files" toml:"max_files" mapstructure:"max_files"`                            // Rotation retention window
	SerializeRotation bool   `json:"serialize_rotation" toml:"serialize_rotation" mapstructure:"serialize_rotation"` // Hold a cross-process lock over rotation and write

	// Diagnostics receives one event per failed or degraded log call. Nil disables it.
	Diagnostics *zerolog.Logger `json:"-" toml:"-" mapstructure:"-"`
}

// DefaultConfig returns the configuration used for every field left at its zero value.
func DefaultConfig() *Config {
	return &Config{
		Directory:   defaultDirectory(),
		FileName:    DefaultFileName,
		MaxFileSize: DefaultMaxFileSize,
		MaxFiles:    DefaultMaxFiles,
	}
}

// defaultDirectory is the logs directory next to the running executable.
func defaultDirectory() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join(".", "logs")
	}
	return filepath.Join(filepath.Dir(exe), "logs")
}

// mergeConfig fills zero fields of the user configuration with defaults and validates the result.
func mergeConfig(cfg ...*Config) (Config, error) {
	defaultConfig := DefaultConfig()
	if len(cfg) == 0 || cfg[0] == nil {
		return *defaultConfig, nil
	}

	userConfig := cfg[0]
	merged := Config{
		Directory:         getConfigValue(defaultConfig.Directory, userConfig.Directory),
		FileName:          getConfigValue(defaultConfig.FileName, userConfig.FileName),
		MaxFileSize:       getConfigValue(defaultConfig.MaxFileSize, userConfig.MaxFileSize),
		MaxFiles:          getConfigValue(defaultConfig.MaxFiles, userConfig.MaxFiles),
		SerializeRotation: userConfig.SerializeRotation,
		Diagnostics:       userConfig.Diagnostics,
	}

	if merged.MaxFileSize < 0 {
		return Config{}, fmt.Errorf("invalid max file size: %d", merged.MaxFileSize)
	}
	if merged.MaxFiles < 0 {
		return Config{}, fmt.Errorf("invalid max files: %d", merged.MaxFiles)
	}
	if strings.ContainsAny(merged.FileName, `/\`) || merged.FileName == "." || merged.FileName == ".." {
		return Config{}, fmt.Errorf("invalid file name: %q", merged.FileName)
	}
	return merged, nil
}

// getConfigValue returns defaultVal if cfgVal equals the zero value for type T,
// otherwise returns cfgVal.
func getConfigValue[T comparable](defaultVal, cfgVal T) T {
	var zero T
	if cfgVal == zero {
		return defaultVal
	}
	return cfgVal
}
