// Package showconfig prints the effective configuration
package showconfig

import (
	"fjacquet/coa-xml/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, config file, COA_* environment
variables and command-line flags have been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return root.GetConfig().Dump(cmd.OutOrStdout())
	},
}
