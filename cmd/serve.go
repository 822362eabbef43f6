package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentic-research/canopy/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editing tools over MCP on stdin/stdout",
	Long: `Serve the editing tools over MCP on stdin/stdout.

Sending SIGHUP re-reads the widget catalog file (--catalog) without
restarting; a catalog that fails to load leaves the running one in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }() // process is exiting

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go func() {
			for range hup {
				if err := a.reloadCatalog(); err != nil {
					a.log.WithError(err).Warn("widget catalog reload failed")
				}
			}
		}()

		a.log.WithField("db", cfg.DB).Info("serving MCP over stdio")
		return tools.New(a.editor, a.log.WithField("component", "tools")).ServeStdio(Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
