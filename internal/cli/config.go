package cli

import (
	"strings"

	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/bloom-dao/bloomgov/internal/domain/config"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command. Its values live in
// .bloomgov/config.local.json and sit below flags and BLOOMGOV_* variables.
func NewConfigCmd() *cobra.Command {
	keys := strings.Join(lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) }), ", ")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change local defaults",
		Long: "Local defaults for the sender, state store and gas settings, kept in\n" +
			".bloomgov/config.local.json. Flags and BLOOMGOV_* variables override them.\n\n" +
			"Keys: " + keys,
		Args: cobra.NoArgs,
		RunE: runShowConfig,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show local defaults and effective settings",
			Args:  cobra.NoArgs,
			RunE:  runShowConfig,
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Set a local default",
			Example: "  bloomgov config set from 0x70997970C51812dc3A010C7d01b50e0d17dc79C8\n  bloomgov config set gas-price 2",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{Key: args[0], Value: args[1]})
				if err != nil {
					return err
				}
				if ok, err := renderJSON(cmd, app, result); ok {
					return err
				}
				return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
			},
		},
		&cobra.Command{
			Use:     "remove <key>",
			Aliases: []string{"unset", "rm"},
			Short:   "Remove a local default",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := getApp(cmd)
				if err != nil {
					return err
				}
				result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
				if err != nil {
					return err
				}
				if ok, err := renderJSON(cmd, app, result); ok {
					return err
				}
				return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
			},
		},
	)

	return cmd
}

func runShowConfig(cmd *cobra.Command, _ []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if ok, err := renderJSON(cmd, app, result); ok {
		return err
	}
	return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
}
