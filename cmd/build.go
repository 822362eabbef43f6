package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/canopy/api"
)

var (
	buildDocument string
	buildTitle    string
	buildAppend   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <structure.yaml|structure.json>",
	Short: "Build a page from a declarative structure file",
	Long: `Build compiles a structure file (a list of container and widget items, in
YAML or JSON) into a document. Without --document a new document is created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Read structure
		items, err := readStructure(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // safe to ignore

		// 2. Resolve target document
		ctx := cmd.Context()
		docID := buildDocument
		if docID == "" {
			title := buildTitle
			if title == "" {
				title = "Untitled"
			}
			created, err := a.editor.CreateDocument(ctx, title, "", "")
			if err != nil {
				return err
			}
			docID = created.DocumentID
		}

		// 3. Compile and save
		res, err := a.editor.BuildPage(ctx, docID, items, !buildAppend)
		if err != nil {
			return err
		}
		for _, path := range res.Skipped {
			a.log.WithField("item", path).Warn("skipped malformed structure item")
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildDocument, "document", "", "Existing document id to build into")
	f.StringVar(&buildTitle, "title", "", "Title of the new document")
	f.BoolVar(&buildAppend, "append", false, "Append to the existing tree instead of replacing it")
	rootCmd.AddCommand(buildCmd)
}

// readStructure decodes a YAML or JSON structure file. YAML is decoded
// generically first so the JSON field names of api.StructureItem apply to
// both formats.
func readStructure(path string) ([]api.StructureItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse structure %s: %w", path, err)
	}
	if m, ok := generic.(map[string]any); ok {
		// Accept {structure: [...]} as well as a bare list.
		generic = m["structure"]
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("parse structure %s: %w", path, err)
	}
	var items []api.StructureItem
	if err := json.Unmarshal(asJSON, &items); err != nil {
		return nil, fmt.Errorf("parse structure %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("structure %s is empty", path)
	}
	return items, nil
}
