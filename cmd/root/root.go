// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/coa-xml/internal/config"
	"fjacquet/coa-xml/internal/container"
	"fjacquet/coa-xml/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
	Sheet        string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded by PersistentPreRunE
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for the running command
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "coa-xml",
		Short: "A CLI tool to convert chart-of-accounts spreadsheets to Tryton XML.",
		Long: `coa-xml converts an account types sheet and an accounts sheet (CSV or XLSX)
into the XML data document used by Tryton account chart templates.
Accounts are nested through their dotted group codes (1, 1.1, 1.1.1, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to coa-xml!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags holds the persistent flags of the root command
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.coa-xml, .coa-xml or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.CSVDelimiter, "csv-delimiter", "", "CSV field delimiter")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Sheet, "sheet", "", "Worksheet to read from XLSX sources (default: first sheet)")
}

// Setup loads the configuration, applies command-line overrides and wires
// the container used by the subcommands.
func Setup(cmd *cobra.Command) error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg, SharedFlags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	adapter := config.ConfigureLoggingFromConfig(cfg)
	if la, ok := adapter.(*logging.LogrusAdapter); ok {
		la.SetOutput(cmd.ErrOrStderr())
	}
	Log = adapter.WithField("command", cmd.Name())

	c, err := container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppConfig = cfg
	AppContainer = c
	return nil
}

func applyOverrides(cfg *config.Config, flags CommonFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.CSVDelimiter != "" {
		cfg.CSV.Delimiter = flags.CSVDelimiter
	}
	if flags.Sheet != "" {
		cfg.XLSX.Sheet = flags.Sheet
	}
}

// GetConfig returns the configuration of the running command, or nil
// before setup.
func GetConfig() *config.Config {
	return AppConfig
}

// GetContainer returns the container of the running command, or nil
// before setup.
func GetContainer() *container.Container {
	return AppContainer
}
