package cmd

import (
	"fmt"

	"atkctl/pkg/logging"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var (
	uliUID  int
	uliCopy bool
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func newULICmd() *cobra.Command {
	uliCmd := &cobra.Command{
		Use:   "uli",
		Short: "Print a one-time login URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := newHelper().LoginURL(cmd.Context(), uliUID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)

			if uliCopy {
				if err := writeClipboard(url); err != nil {
					logging.Warn("CLI", "Could not copy to clipboard: %v", err)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
				}
			}
			return nil
		},
	}
	uliCmd.Flags().IntVar(&uliUID, "uid", 1, "Account id")
	uliCmd.Flags().BoolVar(&uliCopy, "copy", false, "Also copy the URL to the clipboard")
	return uliCmd
}
