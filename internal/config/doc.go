// Package config provides configuration management for atkctl.
//
// Configuration is loaded from several YAML sources and merged in order, with
// later sources overriding only the keys they set.
//
// # Configuration Layers
//
//  1. Default Configuration (embedded in binary)
//     - Stock Automated Testing Kit URLs and directories
//
//  2. User Configuration (~/.config/atkctl/config.yaml)
//     - Personal settings such as the local drushCmd
//
//  3. Project Configuration (./.atk/config.yaml)
//     - Shared with the team through version control
//
//  4. Explicit file passed with --config
//
// # Configuration Structure
//
//	operatingMode: native        # native, ddev, lando or docker
//	drushCmd: "ddev drush"
//	baseUrl: "https://mysite.ddev.site"
//	commandTimeout: 2m           # 0 disables the limit
//	logInUrl: user/login
//	nodeDeleteUrl: node/{nid}/delete
//	authDir: tests/support
//	browser:
//	  headless: true
//	pantheon:
//	  isTarget: false
//	  site: mysite
//	  environment: dev
//
// Values may reference environment variables as ${VAR} or ${VAR:-default}.
package config
