package cmd

import (
	"errors"
	"fmt"
	"strings"

	"atkctl/internal/fixtures"

	"github.com/spf13/cobra"
)

var (
	userName     string
	userEmail    string
	userPassword string
	userRoles    []string
	userUID      int
	userOptions  []string
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Create, delete and look up Drupal accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and assign roles",
		Long: `Create an account with user:create and add each role with
user:role:add. Without --name a random account is generated and its
credentials are printed.`,
		Args: cobra.NoArgs,
		RunE: runUserCreate,
	}
	createCmd.Flags().StringVar(&userName, "name", "", "Account name")
	createCmd.Flags().StringVar(&userEmail, "email", "", "Account e-mail")
	createCmd.Flags().StringVar(&userPassword, "password", "", "Account password")
	createCmd.Flags().StringSliceVar(&userRoles, "role", nil, "Role to add (repeatable)")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Cancel an account and delete its content",
		Long:  `Cancel an account selected by exactly one of --uid, --email or --name.`,
		Args:  cobra.NoArgs,
		RunE:  runUserDelete,
	}
	deleteCmd.Flags().IntVar(&userUID, "uid", 0, "Account id")
	deleteCmd.Flags().StringVar(&userEmail, "email", "", "Account e-mail")
	deleteCmd.Flags().StringVar(&userName, "name", "", "Account name")
	deleteCmd.Flags().StringSliceVar(&userOptions, "option", nil, "Extra user:cancel option (repeatable)")
	deleteCmd.MarkFlagsMutuallyExclusive("uid", "email", "name")
	deleteCmd.MarkFlagsOneRequired("uid", "email", "name")

	uidCmd := &cobra.Command{
		Use:   "uid <email>",
		Short: "Print the uid registered to an e-mail address",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserUID,
	}

	infoCmd := &cobra.Command{
		Use:   "info <email>",
		Short: "Print the accounts registered to an e-mail address as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserInfo,
	}

	userCmd.AddCommand(createCmd, deleteCmd, uidCmd, infoCmd)
	return userCmd
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	account := fixtures.RandomUser()
	if userName != "" {
		account.UserName = userName
		account.UserEmail = fixtures.EmailForName(userName)
	}
	if userEmail != "" {
		account.UserEmail = userEmail
	}
	if userPassword != "" {
		account.UserPassword = userPassword
	}

	uid, err := newHelper().CreateUserWithUserObject(cmd.Context(), account, userRoles, nil, nil)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"uid":          uid,
		"userName":     account.UserName,
		"userEmail":    account.UserEmail,
		"userPassword": account.UserPassword,
		"userRoles":    userRoles,
	})
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	h := newHelper()
	var (
		out string
		err error
	)
	switch {
	case cmd.Flags().Changed("uid"):
		if userUID <= 0 {
			return errors.New("--uid must be positive")
		}
		out, err = h.DeleteUserWithUid(cmd.Context(), userUID, userOptions)
	case userEmail != "":
		out, err = h.DeleteUserWithEmail(cmd.Context(), userEmail, userOptions)
	default:
		out, err = h.DeleteUserWithUserName(cmd.Context(), userName, nil, userOptions)
	}
	if err != nil {
		return err
	}
	if out = strings.TrimSpace(out); out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

func runUserUID(cmd *cobra.Command, args []string) error {
	uid, err := newHelper().GetUidWithEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if uid == 0 {
		return fmt.Errorf("no account registered to %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), uid)
	return nil
}

func runUserInfo(cmd *cobra.Command, args []string) error {
	users, err := newHelper().UserInfoByEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), users)
}
