// Package verify handles the document verification command
package verify

import (
	"fmt"

	"fjacquet/coa-xml/cmd/common"
	"fjacquet/coa-xml/cmd/root"
	"fjacquet/coa-xml/internal/xmlutils"

	"github.com/spf13/cobra"
)

var (
	input   string
	listIDs bool
)

// Cmd represents the verify command
var Cmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a generated Tryton XML document",
	Long: `Verify reads a generated document back and checks that record ids are
unique and that every ref names a record declared before it. The configured
root account type (chart.root_type) may be defined outside the document.`,
	RunE: verifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "XML document to verify")
	Cmd.Flags().BoolVar(&listIDs, "ids", false, "Also print the record ids in document order")
}

func verifyFunc(cmd *cobra.Command, args []string) error {
	summary, err := common.VerifyWithError(root.GetContainer().GetConverter(), input, root.Log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s: %d records (%d account types, %d accounts)\n",
		input, summary.Records, summary.AccountTypes, summary.Accounts); err != nil {
		return err
	}
	if !listIDs {
		return nil
	}

	ids, err := xmlutils.RecordIDs(input)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}
	return nil
}
