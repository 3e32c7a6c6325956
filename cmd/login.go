package cmd

import (
	"fmt"
	"time"

	"atkctl/internal/fixtures"
	"atkctl/internal/session"

	"github.com/spf13/cobra"
)

var (
	loginAccounts string
	loginFresh    bool
)

func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login <account>",
		Short: "Log a fixture account in and persist its browser session",
		Long: `Log in through the Drupal login form in Chrome and save the resulting
browser state under authDir. A saved session that still authenticates is
reused instead of submitting the form again.

<account> is a key in the accounts file (default: <dataDir>/qaUsers.json).`,
		Args: cobra.ExactArgs(1),
		RunE: runLogin,
	}
	loginCmd.Flags().StringVar(&loginAccounts, "accounts", "", "Accounts file (JSON or YAML)")
	loginCmd.Flags().BoolVar(&loginFresh, "fresh", false, "Discard every saved session before logging in")
	return loginCmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	accounts := loginAccounts
	if accounts == "" {
		accounts = defaultAccountsFile()
	}
	account, err := fixtures.LookupAccount(accounts, args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := launchBrowser(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := session.OptionsFromConfig(atkConfig)
	opts.ForceFresh = loginFresh
	outcome, err := session.NewCache(b, newSessionStore(), opts).LoginViaForm(ctx, account)
	if err != nil {
		return err
	}

	how := "logged in via form"
	if outcome.Reused {
		how = "reused saved session"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", account.UserName, how, outcome.Duration.Round(time.Millisecond))
	return nil
}
