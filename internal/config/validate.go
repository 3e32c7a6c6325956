package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate rejects configurations that cannot produce a working execution target.
func (c AtkConfig) Validate() error {
	switch c.OperatingMode {
	case OperatingModeNative, OperatingModeDDEV, OperatingModeLando, OperatingModeDocker:
	default:
		return fmt.Errorf("%w: unknown operatingMode %q", ErrInvalid, c.OperatingMode)
	}

	if c.Pantheon.IsTarget {
		if c.Pantheon.Site == "" || c.Pantheon.Environment == "" {
			return fmt.Errorf("%w: pantheon.isTarget requires pantheon.site and pantheon.environment", ErrInvalid)
		}
		if strings.TrimSpace(c.TerminusCmd) == "" {
			return fmt.Errorf("%w: terminusCmd must not be empty when pantheon.isTarget is set", ErrInvalid)
		}
	} else if strings.TrimSpace(c.DrushCmd) == "" {
		return fmt.Errorf("%w: drushCmd must not be empty", ErrInvalid)
	}

	if c.CommandTimeout < 0 {
		return fmt.Errorf("%w: commandTimeout must not be negative", ErrInvalid)
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("%w: browser.timeout must not be negative", ErrInvalid)
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: baseUrl %q is not an absolute URL", ErrInvalid, c.BaseURL)
		}
	}
	return nil
}

// IsRemote reports whether Drush runs against the Pantheon environment.
func (c AtkConfig) IsRemote() bool {
	return c.Pantheon.IsTarget
}

var placeholder = regexp.MustCompile(`\{[a-z]+\}`)

// EntityURL substitutes id for the placeholder in template, e.g.
// EntityURL("node/{nid}/delete", 7) returns "node/7/delete".
func EntityURL(template string, id any) string {
	return placeholder.ReplaceAllLiteralString(template, fmt.Sprint(id))
}

// AbsoluteURL joins a site-relative path onto BaseURL. Absolute inputs and an
// empty BaseURL return path unchanged.
func (c AtkConfig) AbsoluteURL(path string) string {
	if c.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
