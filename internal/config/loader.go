package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd
var osLookupEnv = os.LookupEnv

const (
	userConfigDir    = ".config/atkctl"
	projectConfigDir = ".atk"
	configFileName   = "config.yaml"
)

// LoadConfig layers the built-in defaults, the user file, the project file and
// finally explicitPath (if non-empty). Later layers only override keys they set.
func LoadConfig(explicitPath string) (AtkConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if err := overlayIfExists(&config, userConfigPath); err != nil {
		return AtkConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if err := overlayIfExists(&config, projectConfigPath); err != nil {
		return AtkConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	if explicitPath != "" {
		if err := overlayFromFile(&config, explicitPath); err != nil {
			return AtkConfig{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
	}

	if err := config.Validate(); err != nil {
		return AtkConfig{}, err
	}
	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func overlayIfExists(config *AtkConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return overlayFromFile(config, path)
}

// overlayFromFile decodes path on top of config, so keys absent from the file
// keep their current value.
func overlayFromFile(config *AtkConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data = expandEnv(data)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, config)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:-default}. A bare $ is left alone so
// passwords containing it survive.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		parts := envRef.FindSubmatch(m)
		if v, ok := osLookupEnv(string(parts[1])); ok && v != "" {
			return []byte(v)
		}
		return parts[3]
	})
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
