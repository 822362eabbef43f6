package cmd

import (
	"github.com/spf13/cobra"
)

var (
	exportSelector string
	exportOutline  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <document-id>",
	Short: "Print a document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // read-only

		if exportOutline {
			st, err := a.editor.GetDocumentStructure(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		}

		res, err := a.editor.ExportDocument(cmd.Context(), args[0], exportSelector)
		if err != nil {
			return err
		}
		if exportSelector != "" {
			return printJSON(cmd.OutOrStdout(), res.Matches)
		}
		return printJSON(cmd.OutOrStdout(), res.Document)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSelector, "selector", "", "JSONPath over the element list; prints only the matches")
	exportCmd.Flags().BoolVar(&exportOutline, "outline", false, "Print the compact outline instead of the full tree")
	rootCmd.AddCommand(exportCmd)
}
