// Package browser drives Chrome over the DevTools protocol for the login
// flow and the UI fixture helpers.
//
// Session state is exported as JSON holding every browser cookie and the
// localStorage of the current origin. ImportState restores both so a
// persisted login can be reused by a fresh browser.
package browser
