package cli

import (
	"context"
	"fmt"

	"github.com/bloom-dao/bloomgov/internal/app"
	"github.com/bloom-dao/bloomgov/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// session holds what a command invocation must release when it finishes
type session struct {
	cleanup func()
	cancel  context.CancelFunc
}

func (s *session) close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	sess := &session{}
	cobra.OnFinalize(sess.close)

	rootCmd := &cobra.Command{
		Use:   "bloomgov",
		Short: "Governance token and gas sponsorship for Bloom DAO",
		Long: `bloomgov runs the Bloom governance token and its gas-sponsoring paymaster on a
local ledger: mint and delegate voting power, create and vote on proposals,
and relay sponsored transactions over a REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, cleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			sess.cleanup = cleanup

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// serve runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				ctx, sess.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("from", "", "Account to send transactions as (defaults to the chain owner)")
	flags.String("data-dir", "", "Directory the ledger state is stored in (defaults to .bloomgov)")
	flags.String("store", "", "State store backend: json or badger")
	flags.Bool("json", false, "Output results as JSON")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("sponsored", false, "Ask the paymaster to sponsor gas")
	flags.String("gas-price", "", "Gas price in gwei")
	flags.Uint64("gas-limit", 0, "Gas limit for submitted transactions")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewTokenCmd(), NewProposalCmd()} {
		cmd.GroupID = "governance"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewPaymasterCmd(), NewConfigCmd(), NewServeCmd(), NewDevCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
