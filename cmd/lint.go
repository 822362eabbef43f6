package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lintJSON bool

var lintCmd = &cobra.Command{
	Use:   "lint <document-id>",
	Short: "Report layout problems in a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // read-only

		res, err := a.editor.LintDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if lintJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		for _, d := range res.Diagnostics {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), d.String())
		}
		if len(res.Diagnostics) > 0 {
			return fmt.Errorf("%d layout problem(s) in %s", len(res.Diagnostics), args[0])
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Print diagnostics as JSON and exit zero")
	rootCmd.AddCommand(lintCmd)
}
