package drush

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileProperties(t *testing.T) {
	out := `[
    {
        "directory": "sites/default/files/xmlsitemap/abc",
        "filename": "1.xml",
        "filesize": 1204,
        "filectime": 1700000000,
        "filemtime": 1700000100,
        "fileatime": 1700000100
    }
]`
	rows, err := ParseFileProperties("fprop", out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.xml", rows[0].Filename)
	assert.Equal(t, int64(1700000100), rows[0].Filemtime)
}

func TestParseFileProperties_Errors(t *testing.T) {
	for _, out := range []string{"", "[ Does not exist", "[]"} {
		_, err := ParseFileProperties("fprop", out)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "output %q", out)
	}
}

func TestParseUserInfo(t *testing.T) {
	out := `{
    "12": {"uid": "12", "name": "qa editor", "mail": "editor@example.com", "user_status": "1", "roles": ["authenticated", "editor"]},
    "3": {"uid": 3, "name": "admin", "mail": "admin@example.com", "roles": {"administrator": "administrator"}}
}`
	users, err := ParseUserInfo("user:info", out)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, 3, users[0].UID)
	assert.Equal(t, []string{"administrator"}, users[0].Roles)
	assert.Equal(t, 12, users[1].UID)
	assert.Equal(t, "qa editor", users[1].Name)
	assert.Equal(t, "1", users[1].Status)
}

func TestParseUserInfo_Empty(t *testing.T) {
	users, err := ParseUserInfo("user:info", "  \n")
	assert.NoError(t, err)
	assert.Nil(t, users)
}

func TestParseUserInfo_Malformed(t *testing.T) {
	_, err := ParseUserInfo("user:info", "[error] Unable to find a matching user")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "user:info", pe.Command)
	assert.Contains(t, pe.Error(), "user:info")
}

func TestParseLoginURL(t *testing.T) {
	got, err := ParseLoginURL("user:login", "\nhttps://example.com/user/reset/1/123/abc/login\n")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/user/reset/1/123/abc/login", got)

	_, err = ParseLoginURL("user:login", "/user/reset/1/123/abc/login")
	assert.Error(t, err)
}
