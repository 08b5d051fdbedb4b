package render

import (
	"fmt"
	"io"

	"github.com/bloom-dao/bloomgov/internal/usecase"
)

// DevRenderer renders development utilities
type DevRenderer struct {
	out io.Writer
}

// NewDevRenderer creates a new dev renderer
func NewDevRenderer(out io.Writer) *DevRenderer {
	return &DevRenderer{out: out}
}

func (r *DevRenderer) RenderAdvance(result *usecase.AdvanceTimeResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Advanced ledger time by %s", result.Now.Sub(result.Previous))))
	field(r.out, "Now", formatTime(result.Now))
	return nil
}

func (r *DevRenderer) RenderFund(result *usecase.FundAccountResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set balance of %s", result.Address.Hex())))
	field(r.out, "Balance", FormatEther(result.Balance))
	return nil
}
