package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

// ProposalRenderer renders governance proposals
type ProposalRenderer struct {
	out    io.Writer
	symbol string
}

// NewProposalRenderer creates a new proposal renderer
func NewProposalRenderer(out io.Writer, symbol string) *ProposalRenderer {
	return &ProposalRenderer{out: out, symbol: symbol}
}

// RenderCreated renders a newly created proposal
func (r *ProposalRenderer) RenderCreated(result *usecase.CreateProposalResult) error {
	p := result.Proposal
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Created proposal #%d", p.ID)))
	field(r.out, "Description", p.Description)
	field(r.out, "Voting ends", formatTime(p.Deadline))
	renderReceipt(r.out, result.Receipt, nil)
	return nil
}

// RenderVote renders a cast vote
func (r *ProposalRenderer) RenderVote(result *usecase.CastVoteResult) error {
	p := result.Proposal
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Voted %s proposal #%d with %s",
		formatSupport(result.Support), p.ID, FormatTokens(result.Weight, r.symbol))))
	r.tally(p)
	renderReceipt(r.out, result.Receipt, nil)
	return nil
}

// RenderAction renders an executed or canceled proposal
func (r *ProposalRenderer) RenderAction(verb string, result *usecase.ProposalActionResult) error {
	p := result.Proposal
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s proposal #%d", verb, p.ID)))
	field(r.out, "Status", StatusTitle(p.Status))
	r.tally(p)
	renderReceipt(r.out, result.Receipt, nil)
	return nil
}

// RenderList renders proposals as a table followed by a per-state summary
func (r *ProposalRenderer) RenderList(result *usecase.ListProposalsResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"ID", "Status", "Description", "For", "Against", "Ends"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, WidthMax: 48},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, p := range result.Proposals {
		t.AppendRow(table.Row{
			p.ID,
			StatusTitle(p.Status),
			p.Description,
			forStyle.Sprint(FormatTokens(p.ForVotes, r.symbol)),
			againstStyle.Sprint(FormatTokens(p.AgainstVotes, r.symbol)),
			formatDeadline(p.Deadline, result.Now),
		})
	}
	t.Render()

	states := lo.Keys(result.Summary)
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	parts := lo.Map(states, func(s models.ProposalStatus, _ int) string {
		return fmt.Sprintf("%d %s", result.Summary[s], s)
	})
	fmt.Fprintf(r.out, "\n%s %s\n", labelStyle.Sprint("Total:"), strings.Join(parts, ", "))
	return nil
}

// RenderProposal renders a proposal with its vote history
func (r *ProposalRenderer) RenderProposal(result *usecase.ShowProposalResult) error {
	p := result.Proposal
	headerStyle.Fprintf(r.out, "Proposal #%d\n", p.ID)
	field(r.out, "Description", p.Description)
	field(r.out, "Status", StatusTitle(p.Status))
	field(r.out, "Proposer", formatAddress(p.Proposer))
	field(r.out, "Created", formatTime(p.CreatedAt))
	field(r.out, "Voting ends", formatDeadline(p.Deadline, result.Now))
	r.tally(p)
	if p.Status == models.ProposalStatusExpired {
		if result.Executable {
			field(r.out, "Executable", forStyle.Sprint("yes"))
		} else {
			field(r.out, "Executable", againstStyle.Sprint("no, defeated"))
		}
	}

	if result.VoteReceipt != nil {
		receipt := result.VoteReceipt
		vote := labelStyle.Sprint("has not voted")
		if receipt.Voted {
			vote = fmt.Sprintf("%s with %s", formatSupport(receipt.Support), FormatTokens(receipt.Weight, r.symbol))
		}
		field(r.out, "Vote of "+result.Voter.Hex()[:10], vote)
	}

	if len(result.Votes) == 0 {
		fmt.Fprintf(r.out, "\n  %s\n", labelStyle.Sprint("No votes cast"))
		return nil
	}
	fmt.Fprintln(r.out)
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Voter", "Support", "Weight", "Block"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, v := range result.Votes {
		t.AppendRow(table.Row{v.Voter.Hex(), formatSupport(v.Support), FormatTokens(v.Weight, r.symbol), v.BlockNumber})
	}
	t.Render()
	return nil
}

func (r *ProposalRenderer) tally(p *usecase.ProposalView) {
	field(r.out, "For", forStyle.Sprint(FormatTokens(p.ForVotes, r.symbol)))
	field(r.out, "Against", againstStyle.Sprint(FormatTokens(p.AgainstVotes, r.symbol)))
}

func formatDeadline(deadline, now time.Time) string {
	if deadline.After(now) {
		return fmt.Sprintf("%s (in %s)", formatTime(deadline), deadline.Sub(now).Round(time.Minute))
	}
	return formatTime(deadline)
}
