// Package testing runs YAML-described scenarios against a Drupal site.
//
// A scenario is a list of steps followed by cleanup steps. Steps run Drush
// through the execution dispatcher, log fixture accounts in through the
// session cache, visit pages and read text from the current page. Each step
// can check the exit code and the presence or absence of text in its output.
//
//	name: create-and-cancel-user
//	tags: [user, drush]
//	steps:
//	  - name: create
//	    kind: drush
//	    command: user:create
//	    args: ["'qa-{{token}}'"]
//	    options: ["--mail=qa-{{token}}@ethereal.email", "--password=secret"]
//	    expected:
//	      contains: ["Created a new user"]
//	cleanup:
//	  - kind: drush
//	    command: user:cancel -y 'qa-{{token}}'
//	    options: ["--delete-content"]
//
// {{token}} expands to a value unique to each scenario run, so scenarios
// sharing one site do not collide on entity names. Steps are never retried.
// Cleanup always runs, with its own deadline, even when the scenario failed
// or timed out.
//
// Scenarios run sequentially or on a worker pool. Each scenario gets its own
// executor and therefore its own browser.
package testing
