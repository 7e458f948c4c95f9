package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference used as a whole value.
// Supports both $VAR and ${VAR} syntax; any other value is returned as-is.
// An unset variable expands to the empty string.
func expandEnvVar(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}

	var name string
	if strings.HasPrefix(value, "${") {
		if !strings.HasSuffix(value, "}") {
			return "", fmt.Errorf("unterminated variable reference: %s", value)
		}
		name = value[2 : len(value)-1]
	} else {
		name = strings.TrimPrefix(value, "$")
	}
	if name == "" {
		return "", fmt.Errorf("empty variable reference: %s", value)
	}

	return os.Getenv(name), nil
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the directory of the config file in use,
// or the current working directory when no file was loaded. A leading ~ is the home directory.
func ResolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %v", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}

	baseDir := ""
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		baseDir = filepath.Dir(configFile)
	}

	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		baseDir = filepath.Join(cwd, baseDir)
	}

	return filepath.Join(baseDir, path), nil
}
