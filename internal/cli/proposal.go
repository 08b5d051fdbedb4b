package cli

import (
	"fmt"
	"time"

	"github.com/bloom-dao/bloomgov/internal/cli/render"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/spf13/cobra"
)

// NewProposalCmd creates the proposal command with subcommands
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals", "p"},
		Short:   "Create, vote on and execute governance proposals",
	}

	cmd.AddCommand(newProposalCreateCmd())
	cmd.AddCommand(newProposalVoteCmd())
	cmd.AddCommand(newProposalExecuteCmd())
	cmd.AddCommand(newProposalCancelCmd())
	cmd.AddCommand(newProposalShowCmd())
	cmd.AddCommand(newProposalListCmd())

	return cmd
}

func newProposalCreateCmd() *cobra.Command {
	var (
		duration time.Duration
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "create <description>",
		Short: "Open a new proposal",
		Long: `Open a new proposal. The proposer needs at least the proposal threshold of
voting power. Voting ends after --duration, at --deadline, or after the
token's default voting period.`,
		Example: `  # Vote for a week
  bloomgov proposal create "Fund the community garden" --duration 168h

  # Vote until a fixed time
  bloomgov proposal create "Adopt the new charter" --deadline 2026-11-01T12:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.CreateProposalParams{Description: args[0], Duration: duration}
			if deadline != "" {
				if duration != 0 {
					return fmt.Errorf("--duration and --deadline are mutually exclusive")
				}
				if params.Deadline, err = time.Parse(time.RFC3339, deadline); err != nil {
					return fmt.Errorf("invalid --deadline, expected RFC 3339: %w", err)
				}
			}

			result, err := app.CreateProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderCreated(result)
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "Voting period from now")
	cmd.Flags().StringVar(&deadline, "deadline", "", "End of voting as an RFC 3339 time")

	return cmd
}

func newProposalVoteCmd() *cobra.Command {
	var support string

	cmd := &cobra.Command{
		Use:   "vote [proposal-id]",
		Short: "Vote on an active proposal",
		Long: `Vote for or against an active proposal with the sender's current voting power.
Without an id, pick one of the active proposals interactively.`,
		Example: `  # Vote for proposal 1 with gas paid by the paymaster
  bloomgov proposal vote 1 --support for --sponsored`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args)
			if err != nil {
				return err
			}
			inFavor, err := parseSupport(support)
			if err != nil {
				return err
			}

			result, err := app.CastVote.Run(cmd.Context(), usecase.CastVoteParams{ProposalID: id, Support: inFavor})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderVote(result)
		},
	}

	cmd.Flags().StringVar(&support, "support", "", "Vote for or against")
	_ = cmd.MarkFlagRequired("support")

	return cmd
}

func newProposalExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute [proposal-id]",
		Short: "Execute a proposal whose voting period has ended",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args)
			if err != nil {
				return err
			}

			result, err := app.ExecuteProposal.Run(cmd.Context(), usecase.ProposalActionParams{ProposalID: id})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderAction("Executed", result)
		},
	}
}

func newProposalCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [proposal-id]",
		Short: "Cancel a proposal as the token owner",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args)
			if err != nil {
				return err
			}

			result, err := app.CancelProposal.Run(cmd.Context(), usecase.ProposalActionParams{ProposalID: id})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderAction("Canceled", result)
		},
	}
}

func newProposalShowCmd() *cobra.Command {
	var voter string

	cmd := &cobra.Command{
		Use:   "show [proposal-id]",
		Short: "Show a proposal and its votes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			id, err := parseProposalID(args)
			if err != nil {
				return err
			}
			params := usecase.ShowProposalParams{ProposalID: id}
			if voter != "" {
				if params.Voter, err = parseAddress(voter); err != nil {
					return err
				}
			}

			result, err := app.ShowProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderProposal(result)
		},
	}

	cmd.Flags().StringVar(&voter, "voter", "", "Also show the vote receipt of this address")

	return cmd
}

func newProposalListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Example: `  # List proposals that can still be voted on
  bloomgov proposal list --status active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var filter models.ProposalStatus
			switch models.ProposalStatus(status) {
			case "":
			case models.ProposalStatusActive, models.ProposalStatusExecuted,
				models.ProposalStatusCanceled, models.ProposalStatusExpired:
				filter = models.ProposalStatus(status)
			default:
				return fmt.Errorf("invalid status: %s (valid: active, executed, canceled, expired)", status)
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{Status: filter})
			if err != nil {
				return err
			}

			if ok, err := renderJSON(cmd, app, result); ok {
				return err
			}
			return render.NewProposalRenderer(cmd.OutOrStdout(), app.Chain.Token().Symbol()).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, executed, canceled, expired)")

	return cmd
}
