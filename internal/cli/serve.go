package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Serve the REST API: proposal and account queries, paymaster statistics,
eligibility checks and a relay endpoint for signed-off governance transactions.
Prometheus metrics are exposed on /metrics.`,
		Example: `  bloomgov serve --listen 0.0.0.0:8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The server is stopped below before its own context is done.
			serverCtx, cancelServer := context.WithCancel(context.Background())
			defer cancelServer()

			server := app.NewAPIServer()
			if err := server.Start(serverCtx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Serving API on http://%s", server.Addr())))

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}

	cmd.Flags().String("listen", "", "Address to listen on (defaults to 127.0.0.1:8080)")

	return cmd
}
