package config

import (
	"time"
)

// OperatingMode describes how Drush is reached from the test machine.
type OperatingMode string

const (
	// OperatingModeNative runs drushCmd directly on the host.
	OperatingModeNative OperatingMode = "native"
	// OperatingModeDDEV runs drushCmd inside a DDEV container (drushCmd is typically "ddev drush").
	OperatingModeDDEV OperatingMode = "ddev"
	// OperatingModeLando runs drushCmd inside Lando (drushCmd is typically "lando drush").
	OperatingModeLando OperatingMode = "lando"
	// OperatingModeDocker covers any other container wrapper.
	OperatingModeDocker OperatingMode = "docker"
)

// AtkConfig is the top-level configuration structure for atkctl.
type AtkConfig struct {
	OperatingMode OperatingMode `yaml:"operatingMode"`
	DrushCmd      string        `yaml:"drushCmd"`
	TerminusCmd   string        `yaml:"terminusCmd,omitempty"`
	BaseURL       string        `yaml:"baseUrl"`
	LogLevel      string        `yaml:"logLevel,omitempty"`

	// CommandTimeout bounds every external process. Zero means no limit.
	CommandTimeout time.Duration `yaml:"commandTimeout,omitempty"`

	LogInURL    string `yaml:"logInUrl"`
	LogOutURL   string `yaml:"logOutUrl"`
	ValidateURL string `yaml:"validateUrl,omitempty"`
	LoginMarker string `yaml:"loginMarker,omitempty"`

	URLs URLTemplates `yaml:",inline"`

	AuthDir    string `yaml:"authDir"`
	DataDir    string `yaml:"dataDir"`
	SupportDir string `yaml:"supportDir"`
	TestDir    string `yaml:"testDir"`

	Browser  BrowserConfig  `yaml:"browser,omitempty"`
	Pantheon PantheonConfig `yaml:"pantheon"`
}

// URLTemplates holds site-relative paths. Entity templates carry a single
// placeholder such as {nid}, {mid} or {tid} that EntityURL substitutes.
type URLTemplates struct {
	ArticleAddURL    string `yaml:"articleAddUrl,omitempty"`
	PageAddURL       string `yaml:"pageAddUrl,omitempty"`
	NodeEditURL      string `yaml:"nodeEditUrl,omitempty"`
	NodeDeleteURL    string `yaml:"nodeDeleteUrl,omitempty"`
	ImageAddURL      string `yaml:"imageAddUrl,omitempty"`
	MediaEditURL     string `yaml:"mediaEditUrl,omitempty"`
	MediaDeleteURL   string `yaml:"mediaDeleteUrl,omitempty"`
	MediaList        string `yaml:"mediaList,omitempty"`
	MenuAddURL       string `yaml:"menuAddUrl,omitempty"`
	MenuEditURL      string `yaml:"menuEditUrl,omitempty"`
	MenuDeleteURL    string `yaml:"menuDeleteUrl,omitempty"`
	MenuListURL      string `yaml:"menuListUrl,omitempty"`
	TermAddURL       string `yaml:"termAddUrl,omitempty"`
	TermEditURL      string `yaml:"termEditUrl,omitempty"`
	TermDeleteURL    string `yaml:"termDeleteUrl,omitempty"`
	TermListURL      string `yaml:"termListUrl,omitempty"`
	TermViewURL      string `yaml:"termViewUrl,omitempty"`
	XMLSitemapURL    string `yaml:"xmlSitemapUrl,omitempty"`
	ContactUsURL     string `yaml:"contactUsUrl,omitempty"`
	RegisterURL      string `yaml:"registerUrl,omitempty"`
	ResetPasswordURL string `yaml:"resetPasswordUrl,omitempty"`
}

// BrowserConfig controls the Chrome instance used for login flows.
type BrowserConfig struct {
	Headless *bool         `yaml:"headless,omitempty"`
	ExecPath string        `yaml:"execPath,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// IsHeadless reports the effective headless setting; unset means headless.
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless == nil || *b.Headless
}

// PantheonConfig selects the remote Pantheon target.
type PantheonConfig struct {
	IsTarget    bool   `yaml:"isTarget"`
	Site        string `yaml:"site"`
	Environment string `yaml:"environment"`
}
