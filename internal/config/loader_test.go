package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile writes raw YAML so tests can express partial layers.
func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// isolatePaths points the user and project layers into tempDir.
func isolatePaths(t *testing.T, tempDir string) (userPath, projectPath string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	userPath = filepath.Join(tempDir, "home", userConfigDir, configFileName)
	projectPath = filepath.Join(tempDir, "project", projectConfigDir, configFileName)
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
	return userPath, projectPath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	isolatePaths(t, t.TempDir())

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
}

func TestLoadConfig_LayerPrecedence(t *testing.T) {
	tempDir := t.TempDir()
	userPath, projectPath := isolatePaths(t, tempDir)

	writeConfigFile(t, userPath, `
drushCmd: "lando drush"
operatingMode: lando
baseUrl: "https://user.example.com"
`)
	writeConfigFile(t, projectPath, `
baseUrl: "https://project.example.com"
nodeDeleteUrl: "content/{nid}/remove"
`)
	explicit := filepath.Join(tempDir, "explicit.yaml")
	writeConfigFile(t, explicit, `
commandTimeout: 90s
pantheon:
  isTarget: true
  site: mysite
  environment: test
`)

	loaded, err := LoadConfig(explicit)
	require.NoError(t, err)

	assert.Equal(t, "lando drush", loaded.DrushCmd, "user layer should survive")
	assert.Equal(t, OperatingModeLando, loaded.OperatingMode)
	assert.Equal(t, "https://project.example.com", loaded.BaseURL, "project layer overrides user layer")
	assert.Equal(t, "content/{nid}/remove", loaded.URLs.NodeDeleteURL)
	assert.Equal(t, "node/{nid}/edit", loaded.URLs.NodeEditURL, "untouched defaults remain")
	assert.Equal(t, 90*time.Second, loaded.CommandTimeout)
	assert.True(t, loaded.IsRemote())
	assert.Equal(t, "mysite", loaded.Pantheon.Site)
	assert.Equal(t, "test", loaded.Pantheon.Environment)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	tempDir := t.TempDir()
	_, projectPath := isolatePaths(t, tempDir)

	originalLookup := osLookupEnv
	defer func() { osLookupEnv = originalLookup }()
	osLookupEnv = func(key string) (string, bool) {
		if key == "ATK_BASE" {
			return "https://env.example.com", true
		}
		return "", false
	}

	writeConfigFile(t, projectPath, `
baseUrl: "${ATK_BASE}"
drushCmd: "${ATK_DRUSH:-ddev drush}"
supportDir: "$literal/dir"
`)

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", loaded.BaseURL)
	assert.Equal(t, "ddev drush", loaded.DrushCmd)
	assert.Equal(t, "$literal/dir", loaded.SupportDir)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, projectPath := isolatePaths(t, t.TempDir())
	writeConfigFile(t, projectPath, "drushCmd: [unterminated")

	_, err := LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	tempDir := t.TempDir()
	isolatePaths(t, tempDir)

	_, err := LoadConfig(filepath.Join(tempDir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AtkConfig)
		wantErr bool
	}{
		{"defaults", func(c *AtkConfig) {}, false},
		{"unknown mode", func(c *AtkConfig) { c.OperatingMode = "podman" }, true},
		{"empty drush locally", func(c *AtkConfig) { c.DrushCmd = " " }, true},
		{"empty drush remotely is fine", func(c *AtkConfig) {
			c.DrushCmd = ""
			c.Pantheon = PantheonConfig{IsTarget: true, Site: "s", Environment: "dev"}
		}, false},
		{"pantheon without site", func(c *AtkConfig) {
			c.Pantheon = PantheonConfig{IsTarget: true, Environment: "dev"}
		}, true},
		{"negative timeout", func(c *AtkConfig) { c.CommandTimeout = -time.Second }, true},
		{"relative base url", func(c *AtkConfig) { c.BaseURL = "example.com" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetDefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalid), "expected ErrInvalid, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntityURL(t *testing.T) {
	assert.Equal(t, "node/42/delete", EntityURL("node/{nid}/delete", 42))
	assert.Equal(t, "media/7/edit", EntityURL("media/{mid}/edit", "7"))
	assert.Equal(t, "taxonomy/term/3", EntityURL("taxonomy/term/{tid}", 3))
	assert.Equal(t, "user/login", EntityURL("user/login", 1))
}

func TestAbsoluteURL(t *testing.T) {
	c := GetDefaultConfig()
	assert.Equal(t, "user/login", c.AbsoluteURL("user/login"))

	c.BaseURL = "https://example.com/"
	assert.Equal(t, "https://example.com/user/login", c.AbsoluteURL("/user/login"))
	assert.Equal(t, "https://other.com/x", c.AbsoluteURL("https://other.com/x"))
}

func TestBrowserConfigHeadless(t *testing.T) {
	var b BrowserConfig
	assert.True(t, b.IsHeadless())

	off := false
	b.Headless = &off
	assert.False(t, b.IsHeadless())
}
