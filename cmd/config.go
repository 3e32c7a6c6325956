package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cset <object> <key> <value>",
		Short: "Set a Drupal configuration value",
		Example: `  atkctl cset system.site name "'QA site'"
  atkctl cset system.performance css.preprocess 0`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newHelper().SetDrupalConfiguration(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if out = strings.TrimSpace(out); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

func newFpropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fprop <path>",
		Short: "Print size and timestamps of a file on the site as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := newHelper().FileProperties(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), props)
		},
	}
}
