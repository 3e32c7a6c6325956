// Package fixtures holds the test-account model and the entity helpers that
// create and remove site state through Drush or the browser.
//
// Helpers that run Drush accept the dispatcher through the Drush interface;
// UI helpers take a Page so callers choose the browser session. Scenarios
// running concurrently against one site should name content with
// UniqueToken to avoid touching each other's entities.
package fixtures
