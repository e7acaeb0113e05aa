// internal/cli/serve.go
package matscope

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/web"
)

var serveAddr string

// listenAndServe is swapped out by tests.
var listenAndServe = func(ctx context.Context, s *web.Server) error { return s.ListenAndServe(ctx) }

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis page over HTTP",
	Long: `Serve the browser front end: upload forms, charts, follow-up questions and
history panels for every analysis type. Requests are forwarded to the
analysis service configured with --baseURL.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides serveAddr from the config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := *getConfig()
	if serveAddr != "" {
		cfg.ServeAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(&cfg, newController(&cfg, nil))
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s (analysis service %s)\n", cfg.ListenAddr(), cfg.ServiceURL())
	return listenAndServe(ctx, srv)
}
