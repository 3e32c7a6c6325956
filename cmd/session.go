package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved browser login sessions",
	}
	clearCmd := &cobra.Command{
		Use:   "clear [user-name]",
		Short: "Remove saved sessions",
		Long:  `Remove the saved session of one account, or of every account when no name is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newSessionStore()
			if len(args) == 1 {
				if err := store.Delete(store.HandleFor(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session for %s\n", args[0])
				return nil
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed all sessions in %s\n", store.Dir)
			return nil
		},
	}
	sessionCmd.AddCommand(clearCmd)
	return sessionCmd
}
