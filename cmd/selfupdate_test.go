package cmd

import (
	"bytes"
	"testing"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRoot executes the real command tree with args and restores its state.
func runRoot(t *testing.T, version string, args ...string) (string, error) {
	t.Helper()
	saved := rootCmd.Version
	t.Cleanup(func() {
		rootCmd.Version = saved
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.Version = version

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSelfUpdate_RefusesDevelopmentBuilds(t *testing.T) {
	for _, version := range []string{"", "dev"} {
		t.Run("version "+version, func(t *testing.T) {
			_, err := runRoot(t, version, "self-update")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot self-update a development version")
		})
	}
}

func TestSelfUpdate_Help(t *testing.T) {
	out, err := runRoot(t, "1.0.0", "self-update", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Checks for the latest release of atkctl on GitHub")
	assert.Contains(t, out, "atkctl self-update")
}

func TestSelfUpdate_RepositorySlug(t *testing.T) {
	owner, repo, err := selfupdate.ParseSlug(githubRepoSlug).GetSlug()
	require.NoError(t, err)
	assert.Equal(t, "performantlabs", owner)
	assert.Equal(t, "atkctl", repo)
}
