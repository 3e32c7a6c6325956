// Package drush composes Drush command lines and parses the structured output
// of the Drush sub-commands atkctl relies on.
//
// Composition is a pure function of the alias and the Spec: tokens are joined
// with single spaces in the order given and nothing is escaped. Values that
// may contain spaces or quotes should be wrapped with Quote by the caller.
//
//	cmd, _ := drush.Compose("drush", drush.Spec{
//		Command: "user:create",
//		Args:    []string{drush.Quote("alice")},
//		Options: []string{"--mail=" + drush.Quote("a@example.com")},
//	})
//	// drush user:create 'alice' --mail='a@example.com'
package drush
