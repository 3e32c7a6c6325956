package cmd

import (
	"errors"
	"fmt"
	"os"

	"atkctl/internal/color"
	"atkctl/internal/config"
	"atkctl/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool

	// atkConfig is loaded once before any subcommand runs.
	atkConfig config.AtkConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "atkctl",
	Short: "Automated Testing Kit helpers for Drupal sites",
	Long: `atkctl runs Drush against a Drupal site, either locally, inside a
container wrapper such as DDEV or Lando, or on a Pantheon environment over
SSH. It provisions and removes test fixtures, caches browser login sessions
and runs YAML test scenarios.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed connections). Execute
	// prints errors itself so a relayed Drush exit status stays quiet.
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
}

// exitCodeError carries a process exit status out of a command without
// printing anything further.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "atkctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// initialize loads configuration and sets up logging and terminal colours.
func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	atkConfig = cfg

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if debugMode {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)
	if !ok {
		logging.Warn("Config", "Unknown log level %q, using info", cfg.LogLevel)
	}

	color.InitializeFromEnv()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file layered over ~/.config/atkctl/config.yaml and .atk/config.yaml")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newDrushCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newEntityCmd())
	rootCmd.AddCommand(newCsetCmd())
	rootCmd.AddCommand(newFpropCmd())
	rootCmd.AddCommand(newSitemapCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newULICmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newMCPServerCmd())
}
