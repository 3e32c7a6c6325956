package drush

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ParseError reports command output that did not have the expected shape.
type ParseError struct {
	Command string
	Output  string
	Err     error
}

func (e *ParseError) Error() string {
	out := e.Output
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return fmt.Sprintf("cannot parse output of %q: %v (output: %q)", e.Command, e.Err, out)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileProperties is one row of `drush file:properties --format=json`.
type FileProperties struct {
	Directory string `json:"directory"`
	Filename  string `json:"filename"`
	Filesize  int64  `json:"filesize"`
	Filectime int64  `json:"filectime"`
	Filemtime int64  `json:"filemtime"`
	Fileatime int64  `json:"fileatime"`
}

// ParseFileProperties decodes file:properties output. The command emits a
// list of rows, one per path.
func ParseFileProperties(command, output string) ([]FileProperties, error) {
	var rows []FileProperties
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &rows); err != nil {
		return nil, &ParseError{Command: command, Output: output, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Command: command, Output: output, Err: fmt.Errorf("no rows")}
	}
	return rows, nil
}

// UserInfo is a single account as reported by `drush user:info --format=json`.
type UserInfo struct {
	UID    int      `json:"uid"`
	Name   string   `json:"name"`
	Mail   string   `json:"mail"`
	Status string   `json:"status,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// userInfoRow mirrors the wire format, where numbers arrive as strings and
// roles may be a list or a map.
type userInfoRow struct {
	UID    json.RawMessage `json:"uid"`
	Name   string          `json:"name"`
	Mail   string          `json:"mail"`
	Status json.RawMessage `json:"user_status"`
	Roles  json.RawMessage `json:"roles"`
}

// ParseUserInfo decodes user:info output keyed by uid. Empty output means no
// matching account and yields (nil, nil). Results are ordered by uid.
func ParseUserInfo(command, output string) ([]UserInfo, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, nil
	}

	var rows map[string]userInfoRow
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, &ParseError{Command: command, Output: output, Err: err}
	}

	users := make([]UserInfo, 0, len(rows))
	for key, row := range rows {
		uid, err := parseFlexibleInt(row.UID)
		if err != nil {
			// Fall back to the map key, which Drush sets to the uid.
			uid, err = strconv.Atoi(key)
			if err != nil {
				return nil, &ParseError{Command: command, Output: output, Err: fmt.Errorf("uid for %q: %w", key, err)}
			}
		}
		users = append(users, UserInfo{
			UID:    uid,
			Name:   row.Name,
			Mail:   row.Mail,
			Status: rawString(row.Status),
			Roles:  parseRoles(row.Roles),
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}

func parseFlexibleInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

func parseRoles(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil {
		out := make([]string, 0, len(m))
		for _, v := range m {
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}
	return nil
}

// ParseLoginURL extracts the one-time login URL printed by `drush user:login`.
func ParseLoginURL(command, output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		u, err := url.Parse(line)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return line, nil
		}
	}
	return "", &ParseError{Command: command, Output: output, Err: fmt.Errorf("no login URL found")}
}
