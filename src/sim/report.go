package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/yggdrasil-network/rplsim/src/crypto"
	"github.com/yggdrasil-network/rplsim/src/exchange"
	"github.com/yggdrasil-network/rplsim/src/types"
)

// Report is everything a finished run produced. It holds no key material.
type Report struct {
	Started    time.Time
	Elapsed    time.Duration
	Nodes      types.NodeSet
	Iterations uint32
	Anchor     types.Solution
	Curve      crypto.CurveID
	Selection  exchange.Selection
	Outcomes   []exchange.Outcome
}

// Counts returns the number of successful and failed exchanges.
func (r *Report) Counts() (successes, failures int) {
	for _, o := range r.Outcomes {
		if o.Success {
			successes++
		} else {
			failures++
		}
	}
	return
}

// WriteOutcomes writes one line per exchange attempt in attempt order.
func (r *Report) WriteOutcomes(w io.Writer) error {
	for _, o := range r.Outcomes {
		if _, err := fmt.Fprintln(w, o.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary renders the run summary as a two-column table.
func (r *Report) WriteSummary(w io.Writer) {
	successes, failures := r.Counts()
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.SetAutoWrapText(false)
	table.Append([]string{"Nodes:", fmt.Sprintf("%d", r.Nodes.Len())})
	table.Append([]string{"Iterations:", fmt.Sprintf("%d", r.Iterations)})
	table.Append([]string{"Anchor:", r.Anchor.Position.String()})
	table.Append([]string{"Anchor fitness:", fmt.Sprintf("%g", r.Anchor.Fitness)})
	table.Append([]string{"Found in iteration:", fmt.Sprintf("%d", r.Anchor.Iteration)})
	table.Append([]string{"Curve:", string(r.Curve)})
	table.Append([]string{"Selection:", string(r.Selection)})
	table.Append([]string{"Attempts:", fmt.Sprintf("%d", len(r.Outcomes))})
	table.Append([]string{"Successful:", fmt.Sprintf("%d", successes)})
	table.Append([]string{"Failed:", fmt.Sprintf("%d", failures)})
	table.Append([]string{"Elapsed:", r.Elapsed.Round(time.Millisecond).String()})
	table.Render()
}
