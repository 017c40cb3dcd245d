// Package sim runs the two phases of a secure parent selection round: the
// swarm optimizer picks an anchor position for the node population, then
// every node takes part in pairwise key exchanges.
package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gologme/log"

	"github.com/yggdrasil-network/rplsim/src/config"
	"github.com/yggdrasil-network/rplsim/src/crypto"
	"github.com/yggdrasil-network/rplsim/src/exchange"
	"github.com/yggdrasil-network/rplsim/src/swarm"
	"github.com/yggdrasil-network/rplsim/src/types"
)

type runner struct {
	cfg      *config.RunConfig
	log      exchange.Logger
	progress Progress
	now      Clock
}

// Run validates cfg and performs one simulation run. The context is checked
// between phases; if it is cancelled the run stops with ctx.Err().
func Run(ctx context.Context, cfg *config.RunConfig, logger exchange.Logger, opts ...SetupOption) (*Report, error) {
	r := &runner{
		cfg: cfg,
		log: logger,
		now: time.Now,
	}
	for _, opt := range opts {
		r._applyOption(opt)
	}
	if r.log == nil {
		r.log = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*Report, error) {
	nodes, err := r.cfg.NodeSet()
	if err != nil {
		return nil, err
	}
	report := &Report{
		Started:    r.now(),
		Nodes:      nodes,
		Iterations: r.cfg.Iterations,
	}
	for _, id := range nodes.IDs() {
		r.log.Debugf("Node %d is taking part in parent selection\n", id)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.log.Infof("Selecting an anchor from %d candidates over %d iterations\n", nodes.Len(), r.cfg.Iterations)
	if report.Anchor, err = swarm.Optimize(uint32(nodes.Len()), r.cfg.Iterations, r.swarmOptions()...); err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	r.log.Infof("Anchor %s with fitness %g found in iteration %d\n",
		report.Anchor.Position, report.Anchor.Fitness, report.Anchor.Iteration)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := r.exchangeOptions()
	if err != nil {
		return nil, err
	}
	s, err := exchange.New(r.log, opts...)
	if err != nil {
		return nil, err
	}
	report.Curve = s.Curve()
	report.Selection, _ = exchange.ParseSelection(r.cfg.Selection)
	if report.Outcomes, err = s.Run(nodes, r.cfg.AttemptCount(nodes)); err != nil {
		return nil, fmt.Errorf("key exchange: %w", err)
	}
	report.Elapsed = r.now().Sub(report.Started)
	return report, nil
}

func (r *runner) swarmOptions() []swarm.SetupOption {
	opts := []swarm.SetupOption{
		swarm.Bound(r.cfg.Bound),
		swarm.Workers(r.cfg.Workers),
		swarm.Observer(func(iteration uint32, best types.Solution) {
			r.log.Debugf("Iteration %d: best fitness %g at %s\n", iteration, best.Fitness, best.Position)
		}),
	}
	if r.cfg.Seed != nil {
		opts = append(opts, swarm.Seed(*r.cfg.Seed))
	}
	return opts
}

func (r *runner) exchangeOptions() ([]exchange.SetupOption, error) {
	curve, err := crypto.ParseCurve(r.cfg.Curve)
	if err != nil {
		return nil, err
	}
	selection, err := exchange.ParseSelection(r.cfg.Selection)
	if err != nil {
		return nil, err
	}
	opts := []exchange.SetupOption{
		exchange.Curve{Curve: curve},
		exchange.Workers(r.cfg.Workers),
		selection,
	}
	if r.cfg.Seed != nil {
		opts = append(opts, exchange.Seed(*r.cfg.Seed))
	}
	if r.progress != nil {
		opts = append(opts, exchange.Progress(r.progress))
	}
	return opts, nil
}
