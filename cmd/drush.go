package cmd

import (
	"fmt"
	"strings"

	"atkctl/internal/drush"
	"atkctl/pkg/logging"

	"github.com/spf13/cobra"
)

func newDrushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drush <command> [-- args and options...]",
		Short: "Run a Drush command on the configured site",
		Long: `Run a Drush command on the configured site.

Everything after -- is passed to Drush. Words starting with a dash become
options, the rest positional arguments. Drush's exit status becomes
atkctl's exit status.

Examples:
  atkctl drush status
  atkctl drush user:info -- --mail=qa@example.com --format=json
  atkctl drush cset -- -y system.site name "'QA site'"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDrush,
	}
}

// splitDrushWords separates options from positional arguments.
func splitDrushWords(words []string) (args, options []string) {
	for _, w := range words {
		if strings.HasPrefix(w, "-") {
			options = append(options, w)
		} else {
			args = append(args, w)
		}
	}
	return args, options
}

func runDrush(cmd *cobra.Command, args []string) error {
	command := args[0]
	rest := args[1:]
	if dash := cmd.ArgsLenAtDash(); dash > 0 {
		command = strings.Join(args[:dash], " ")
		rest = args[dash:]
	}
	positional, options := splitDrushWords(rest)

	d := newDispatcher()
	spec := drush.New(command).WithArgs(positional...).WithOptions(options...)
	logging.Debug("Drush", "Running on %s", d)

	res, err := d.Execute(cmd.Context(), spec)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
	if !res.Success() {
		return &exitCodeError{code: res.ExitCode}
	}
	return nil
}
