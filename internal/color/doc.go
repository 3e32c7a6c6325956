// Package color holds the console styles used for test reports.
//
// Styles use adaptive colours so output stays readable on light and dark
// terminals. lipgloss detects the terminal profile and NO_COLOR; the
// ATKCTL_THEME environment variable forces "light" or "dark".
//
// Width helpers measure display cells rather than bytes so emoji status
// icons and non-Latin scenario names line up in columns.
package color
