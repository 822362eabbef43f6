package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var widgetCategory string

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "List widget types in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // read-only

		types, err := a.editor.ListWidgets(cmd.Context(), widgetCategory)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTITLE\tCATEGORIES")
		for _, t := range types {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Title, strings.Join(t.Categories, ","))
		}
		return w.Flush()
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <widget-type>",
	Short: "Print the settings schema of a widget type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // read-only

		s, err := a.editor.GetWidgetSchema(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

func init() {
	widgetsCmd.Flags().StringVar(&widgetCategory, "category", "", "Only list widgets in this category")
	rootCmd.AddCommand(widgetsCmd)
	rootCmd.AddCommand(schemaCmd)
}

func printJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
