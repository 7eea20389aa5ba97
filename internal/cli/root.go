// Package cli implements the tonsigil command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and released by execute once the command returns.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tonsigil/internal/config"
	"github.com/mrz1836/tonsigil/internal/metrics"
	"github.com/mrz1836/tonsigil/internal/output"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Command groups shown in root help.
const (
	groupWallet = "wallet"
	groupConfig = "config"
)

// logFileName is the log file created under the home directory.
const logFileName = "tonsigil.log"

var (
	// Global flags
	homeDir      string
	networkFlag  string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	cmdCtx    *CommandContext
)

// BuildInfo carries version metadata injected at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tonsigil",
	Short: "A TON wallet provisioning CLI",
	Long: `Tonsigil creates and imports TON wallets from 24-word mnemonics.

Mnemonics are encrypted with your password before they are written to
disk. Imported wallets are matched against every known wallet contract
version so funds held under an older contract are found.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
}

// versionCmd prints build metadata.
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	Long:    `Print the tonsigil version, commit and build date.`,
	Example: `  tonsigil version`,
	GroupID: groupConfig,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outln(cmd.OutOrStdout(), "tonsigil "+rootCmd.Version)
		return nil
	},
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	rootCmd.Version = formatVersion(info)
	walkCommands(rootCmd, enrichHelp)

	err := execute(context.Background())
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(os.Stderr, err, format)
		return err
	}
	return nil
}

// execute runs the command tree and releases the logger on every path,
// including a failed RunE.
func execute(ctx context.Context) error {
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return sigilerr.ExitCode(err)
}

func formatVersion(info BuildInfo) string {
	version, commit, date := info.Version, info.Commit, info.Date
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// resolveHome picks the data directory: flag, then environment, then default.
func resolveHome() string {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	return config.ExpandHome(home)
}

// loadConfig layers defaults, config file, .env files, environment and
// flags, then validates the result. The API key from the environment is
// placed last so it follows --network.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}
	home := resolveHome()
	if err := config.LoadDotEnv(filepath.Join(home, ".env")); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}

	loaded, err := config.LoadOrDefault(config.Path(home))
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}
	if err = config.ApplyEnvironment(loaded); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}

	// Override with command-line flags
	loaded.Home = resolveHome()
	if loaded.Logging.File == config.Defaults().Logging.File {
		loaded.Logging.File = filepath.Join(loaded.Home, logFileName)
	}
	if networkFlag != "" {
		loaded.Network = networkFlag
	}
	if err = config.ApplyAPIKey(loaded); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrConfigInvalid, err)
	}
	if verbose {
		loaded.Output.Verbose = true
		loaded.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		loaded.Output.DefaultFormat = outputFormat
	}
	if err = loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.GetLoggingLevel()), cfg.GetLoggingFile())
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	formatter = output.NewFormatter(output.ParseFormat(cfg.GetOutputFormat()), cmd.OutOrStdout())
	cmdCtx = NewCommandContext(cfg, logger, formatter)
	SetCmdContext(cmd, cmdCtx)
	return nil
}

// cleanup records counters and releases resources.
func cleanup() {
	if logger == nil {
		return
	}
	snap := metrics.Global.Snapshot()
	logger.Debug("session metrics: rpc_calls=%d rpc_errors=%d retries=%d probes=%d wallet_ops=%d wallet_errors=%d",
		snap.RPCCallsTotal, snap.RPCErrorsTotal, snap.RPCRetries,
		snap.ProbesTotal, snap.WalletOpsTotal, snap.WalletOpsErrors)
	_ = logger.Close()
	logger = nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupWallet, Title: "Wallet Operations:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)
	rootCmd.SetHelpCommandGroupID(groupConfig)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "tonsigil data directory (default: ~/.tonsigil)")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network: mainnet or testnet (default from config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	registerCompletions()
}
