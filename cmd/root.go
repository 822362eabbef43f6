package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentic-research/canopy/internal/catalog"
	"github.com/agentic-research/canopy/internal/config"
	"github.com/agentic-research/canopy/internal/editor"
	"github.com/agentic-research/canopy/internal/logging"
	"github.com/agentic-research/canopy/internal/schema"
	"github.com/agentic-research/canopy/internal/store"
	"github.com/agentic-research/canopy/internal/templates"
)

var (
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Canopy: page-tree editing tools for agents",
	Long: `Canopy stores page documents as trees of containers and widgets and
exposes editing operations over MCP (canopy serve) and the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
}

func init() {
	v = config.New()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/canopy/config.yaml)")
	pf.String("db", "", "SQLite document database")
	pf.String("templates-dir", "", "Template library directory")
	pf.String("catalog", "", "Widget catalog YAML (default: built-in catalog)")
	pf.Bool("strict-structure", false, "Reject malformed build_page items instead of skipping them")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")

	for key, flag := range map[string]string{
		config.KeyDB:              "db",
		config.KeyTemplatesDir:    "templates-dir",
		config.KeyCatalog:         "catalog",
		config.KeyStrictStructure: "strict-structure",
		config.KeyLogLevel:        "log-level",
		config.KeyLogFormat:       "log-format",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag)) // flag names are static
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the wired editor plus the resources it holds open.
type app struct {
	store   *store.SQLiteStore
	editor  *editor.Editor
	catalog *catalog.Swappable
	log     *logrus.Entry
}

func (a *app) Close() error {
	return a.store.Close()
}

// openApp wires storage, catalog, templates and the editor from cfg.
func openApp() (*app, error) {
	log := logrus.NewEntry(logger)

	// 1. Widget registry
	initial, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	reg := catalog.NewSwappable(initial)

	// 2. Template library
	lib, err := templates.OpenDir(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	// 3. Document store
	st, err := store.OpenSQLite(cfg.DB)
	if err != nil {
		return nil, err
	}
	st.OnSave(func(_ context.Context, documentID string, revision int64) {
		log.WithFields(logrus.Fields{"document_id": documentID, "revision": revision}).Debug("document saved")
	})

	// 4. Editor
	ed := editor.New(st, st, schema.NewGenerator(reg), lib, editor.Options{
		StrictStructure: cfg.StrictStructure,
		Logger:          log.WithField("component", "editor"),
	})
	return &app{store: st, editor: ed, catalog: reg, log: log}, nil
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Catalog)
}

// reloadCatalog re-reads the configured catalog file and swaps it in. On
// error the running catalog stays in place.
func (a *app) reloadCatalog() error {
	next, err := loadCatalog()
	if err != nil {
		return err
	}
	a.catalog.Swap(next)
	a.editor.Schemas().Reset()
	a.log.WithField("widgets", len(next.Names())).Info("widget catalog reloaded")
	return nil
}
