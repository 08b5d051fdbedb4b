package cli

import (
	"fmt"

	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// NewPaymasterCmd creates the paymaster command with subcommands
func NewPaymasterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "paymaster",
		Aliases: []string{"pm"},
		Short:   "Inspect and administer gas sponsorship",
	}

	cmd.AddCommand(newPaymasterStatusCmd())
	cmd.AddCommand(newPaymasterEligibleCmd())
	cmd.AddCommand(newPaymasterUserCmd())
	cmd.AddCommand(newPaymasterActionCmd(usecase.PaymasterPause, "pause", "Stop sponsoring transactions"))
	cmd.AddCommand(newPaymasterActionCmd(usecase.PaymasterUnpause, "unpause", "Resume sponsoring transactions"))
	cmd.AddCommand(newPaymasterUserActionCmd(usecase.PaymasterBlock, "block <address>", "Block an address from sponsorship"))
	cmd.AddCommand(newPaymasterUserActionCmd(usecase.PaymasterUnblock, "unblock <address>", "Allow a blocked address again"))
	cmd.AddCommand(newPaymasterParamsCmd())
	cmd.AddCommand(newPaymasterMinPowerCmd())
	cmd.AddCommand(newPaymasterWithdrawCmd())
	cmd.AddCommand(newPaymasterFundCmd())

	return cmd
}

func newPaymasterStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show paymaster parameters and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowPaymaster.Run(cmd.Context())
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, info); ok {
				return err
			}
			return render.NewPaymasterRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderStatus(info)
		},
	}
}

func newPaymasterEligibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eligible [address]",
		Short: "Check whether an address can use sponsored transactions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEligibility(cmd, args, false)
		},
	}
}

func newPaymasterUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user [address]",
		Short: "Show the sponsorship record of an address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEligibility(cmd, args, true)
		},
	}
}

func runEligibility(cmd *cobra.Command, args []string, statsOnly bool) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	addr := app.Config.From
	if len(args) == 1 {
		if addr, err = parseAddress(args[0]); err != nil {
			return err
		}
	}

	result, err := app.CheckEligibility.Run(cmd.Context(), addr)
	if err != nil {
		return err
	}

	if ok, err := renderJSON(cmd, app, result); ok {
		return err
	}
	r := render.NewPaymasterRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol())
	if statsOnly {
		return r.RenderUser(result)
	}
	return r.RenderEligibility(result)
}

// runManage sends a paymaster admin operation and renders the outcome
func runManage(cmd *cobra.Command, params usecase.ManagePaymasterParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManagePaymaster.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	if ok, err := renderJSON(cmd, app, result); ok {
		return err
	}
	return render.NewPaymasterRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderManage(result)
}

func newPaymasterActionCmd(action usecase.PaymasterAction, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManage(cmd, usecase.ManagePaymasterParams{Action: action})
		},
	}
}

func newPaymasterUserActionCmd(action usecase.PaymasterAction, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return runManage(cmd, usecase.ManagePaymasterParams{Action: action, User: user})
		},
	}
}

func newPaymasterParamsCmd() *cobra.Command {
	var (
		maxGasPrice    string
		maxGasLimit    uint64
		minVotingPower string
	)

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Update sponsorship limits",
		Long:  `Update sponsorship limits. Limits that are not given keep their current value.`,
		Example: `  # Sponsor up to 50 gwei and 500k gas
  bloomgov paymaster params --max-gas-price 50 --max-gas-limit 500000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.ManagePaymasterParams{Action: usecase.PaymasterParams, MaxGasLimit: maxGasLimit}
			var err error
			if maxGasPrice != "" {
				if params.MaxGasPrice, err = domain.ParseUnits(maxGasPrice, 9); err != nil {
					return fmt.Errorf("invalid --max-gas-price: %w", err)
				}
			}
			if minVotingPower != "" {
				if params.MinVotingPower, err = domain.ParseTokenAmount(minVotingPower); err != nil {
					return fmt.Errorf("invalid --min-voting-power: %w", err)
				}
			}
			return runManage(cmd, params)
		},
	}

	cmd.Flags().StringVar(&maxGasPrice, "max-gas-price", "", "Highest sponsored gas price in gwei")
	cmd.Flags().Uint64Var(&maxGasLimit, "max-gas-limit", 0, "Highest sponsored gas limit")
	cmd.Flags().StringVar(&minVotingPower, "min-voting-power", "", "Voting power required for sponsorship, in tokens")

	return cmd
}

func newPaymasterMinPowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "min-power <amount>",
		Short: "Set the voting power required for sponsorship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			power, err := domain.ParseTokenAmount(args[0])
			if err != nil {
				return err
			}
			return runManage(cmd, usecase.ManagePaymasterParams{
				Action:         usecase.PaymasterMinVotingPower,
				MinVotingPower: power,
			})
		},
	}
}

func newPaymasterWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [recipient]",
		Short: "Withdraw the paymaster balance",
		Long:  `Withdraw the whole paymaster balance to a recipient, the sender by default.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipient common.Address
			if len(args) == 1 {
				var err error
				if recipient, err = parseAddress(args[0]); err != nil {
					return err
				}
			}
			return runManage(cmd, usecase.ManagePaymasterParams{Action: usecase.PaymasterWithdraw, Recipient: recipient})
		},
	}
}

func newPaymasterFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fund <ether>",
		Short:   "Send ether to the paymaster",
		Example: `  bloomgov paymaster fund 2.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseEther(args[0])
			if err != nil {
				return err
			}
			return runManage(cmd, usecase.ManagePaymasterParams{Action: usecase.PaymasterFund, Amount: amount})
		},
	}
}
