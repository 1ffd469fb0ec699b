// Package convert handles the chart-of-accounts conversion command
package convert

import (
	"fjacquet/coa-xml/cmd/common"
	"fjacquet/coa-xml/cmd/root"
	"fjacquet/coa-xml/internal/report"

	"github.com/spf13/cobra"
)

var (
	// Flags of the convert command
	Flags = common.ConvertRequest{}

	reportFile   string
	reportFormat string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert account type and account sheets to Tryton XML",
	Long: `Convert reads the account types sheet (name, id, sequence, parent) and the
accounts sheet (GRUPO, NUMERO, clase, DESCRIPCION, aplazar, conciliar, tipo)
and writes the account chart template document. Sources may be CSV or XLSX.`,
	Example: `  coa-xml convert --types account_types.csv --accounts cuentas.csv -o account_coop_ar.xml --verify`,
	RunE:    convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Flags.TypesFile, "types", "t", "", "Account types source (CSV or XLSX)")
	Cmd.Flags().StringVarP(&Flags.AccountsFile, "accounts", "a", "", "Accounts source (CSV or XLSX)")
	Cmd.Flags().StringVarP(&Flags.OutputFile, "output", "o", "", "Output XML file")
	Cmd.Flags().BoolVar(&Flags.Verify, "verify", false, "Verify the written document")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write a conversion summary to this file")
	Cmd.Flags().StringVar(&reportFormat, "report-format", report.FormatJSON, "Summary format (json or yaml)")
}

func convertFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Convert command called")
	if reportFile != "" {
		if err := report.ValidateFormat(reportFormat); err != nil {
			return err
		}
	}

	result, err := common.ProcessFilesWithError(cmd.Context(), root.GetContainer().GetConverter(), Flags, root.Log)
	if err != nil {
		return err
	}

	if reportFile != "" {
		summary := report.NewSummary(Flags.TypesFile, Flags.AccountsFile, Flags.OutputFile, result)
		return report.NewGenerator(root.Log).WriteFile(summary, reportFormat, reportFile)
	}
	return nil
}
