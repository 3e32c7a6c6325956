package config

import "time"

const (
	defaultDrushCmd    = "drush"
	defaultTerminusCmd = "terminus"
	defaultLoginMarker = "Member for"
)

// GetDefaultConfig returns the configuration used when no file overrides it.
// Paths mirror the stock Automated Testing Kit layout.
func GetDefaultConfig() AtkConfig {
	return AtkConfig{
		OperatingMode: OperatingModeNative,
		DrushCmd:      defaultDrushCmd,
		TerminusCmd:   defaultTerminusCmd,
		LogLevel:      "info",
		LogInURL:      "user/login",
		LogOutURL:     "user/logout",
		ValidateURL:   "user",
		LoginMarker:   defaultLoginMarker,
		URLs: URLTemplates{
			ArticleAddURL:    "node/add/article",
			PageAddURL:       "node/add/page",
			NodeEditURL:      "node/{nid}/edit",
			NodeDeleteURL:    "node/{nid}/delete",
			ImageAddURL:      "media/add/image",
			MediaEditURL:     "media/{mid}/edit",
			MediaDeleteURL:   "media/{mid}/delete",
			MediaList:        "admin/content/media",
			MenuAddURL:       "admin/structure/menu/manage/main/add",
			MenuEditURL:      "admin/structure/menu/item/{mid}/edit",
			MenuDeleteURL:    "admin/structure/menu/item/{mid}/delete",
			MenuListURL:      "admin/structure/menu/manage/main",
			TermAddURL:       "admin/structure/taxonomy/manage/tags/add",
			TermEditURL:      "taxonomy/term/{tid}/edit",
			TermDeleteURL:    "taxonomy/term/{tid}/delete",
			TermListURL:      "admin/structure/taxonomy/manage/tags/overview",
			TermViewURL:      "taxonomy/term/{tid}",
			XMLSitemapURL:    "admin/config/search/xmlsitemap",
			ContactUsURL:     "form/contact",
			RegisterURL:      "user/register",
			ResetPasswordURL: "user/password",
		},
		AuthDir:    "tests/support",
		DataDir:    "tests/data",
		SupportDir: "tests/support",
		TestDir:    "tests/e2e",
		Browser: BrowserConfig{
			Timeout: 60 * time.Second,
		},
		Pantheon: PantheonConfig{
			IsTarget:    false,
			Environment: "dev",
		},
	}
}
