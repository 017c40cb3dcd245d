// Package exchange simulates pairwise ECDH key establishment between nodes
// of a mesh. Every node gets one key pair up front; each attempt then picks
// an ordered (sender, receiver) pair, lets both sides derive the shared
// secret independently and records whether the two derivations agree.
package exchange

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/gologme/log"

	"github.com/yggdrasil-network/rplsim/src/crypto"
	"github.com/yggdrasil-network/rplsim/src/types"
)

// Keeps the two PCG words apart when both come from one seed.
const seedStream = 0xd1b54a32d192ed03

// ErrSecretMismatch is the reason recorded when both derivations succeed but
// disagree.
var ErrSecretMismatch = errors.New("shared secret mismatch")

type Logger interface {
	Printf(string, ...interface{})
	Println(...interface{})
	Infof(string, ...interface{})
	Infoln(...interface{})
	Warnf(string, ...interface{})
	Warnln(...interface{})
	Errorf(string, ...interface{})
	Errorln(...interface{})
	Debugf(string, ...interface{})
	Debugln(...interface{})
}

// Outcome is the record of one exchange attempt. Reason is empty on success.
// Secrets are never part of an outcome.
type Outcome struct {
	Attempt  uint32
	Sender   types.NodeID
	Receiver types.NodeID
	Success  bool
	Reason   string
}

func (o Outcome) String() string {
	if o.Success {
		return fmt.Sprintf("Key exchange successful between Node %d and Node %d", o.Sender, o.Receiver)
	}
	return fmt.Sprintf("Key exchange failed between Node %d and Node %d: %s", o.Sender, o.Receiver, o.Reason)
}

// The Simulator holds the settings for key exchange runs. It keeps no state
// between runs, so one Simulator may be reused.
type Simulator struct {
	log       Logger
	curve     crypto.Curve
	entropy   io.Reader
	rng       *mrand.Rand
	workers   int
	selection Selection
	progress  Progress
}

func New(logger Logger, opts ...SetupOption) (*Simulator, error) {
	s := &Simulator{
		log:       logger,
		entropy:   rand.Reader,
		selection: Uniform,
	}
	for _, opt := range opts {
		s._applyOption(opt)
	}
	if s.log == nil {
		s.log = log.New(io.Discard, "", 0)
	}
	if s.curve == nil {
		s.curve, _ = crypto.ParseCurve(string(crypto.DefaultCurve))
	}
	if s.entropy == nil {
		s.entropy = rand.Reader
	}
	if s.rng == nil {
		s.rng = mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	}
	selection, err := ParseSelection(string(s.selection))
	if err != nil {
		return nil, err
	}
	s.selection = selection
	return s, nil
}

// Curve returns the curve key pairs are generated on.
func (s *Simulator) Curve() crypto.CurveID {
	return s.curve.ID()
}

// party is the side of an exchange a node plays. *crypto.KeyPair is the
// only production implementation.
type party interface {
	Public() crypto.PublicKey
	SharedSecret(peer crypto.PublicKey) (crypto.SharedSecret, error)
	Destroy()
}

type keyring map[types.NodeID]party

func (r keyring) destroy() {
	for _, k := range r {
		k.Destroy()
	}
}

type pair struct {
	attempt  uint32
	sender   types.NodeID
	receiver types.NodeID
}

// Run generates a key pair for every node and then performs the requested
// number of exchange attempts, returning exactly one Outcome per attempt in
// attempt order. Fewer than two nodes fails with types.ErrInsufficientNodes.
// A failure to generate keys aborts the run with types.ErrCryptoFailure;
// failures during an attempt are recorded in its Outcome instead.
func (s *Simulator) Run(nodes types.NodeSet, attempts uint32) ([]Outcome, error) {
	if nodes.Len() < 2 {
		return nil, fmt.Errorf("%w: key exchange needs at least 2 nodes, got %d", types.ErrInsufficientNodes, nodes.Len())
	}
	ring, err := s.generate(nodes)
	if err != nil {
		return nil, err
	}
	defer ring.destroy()
	outcomes := s.exchange(ring, s.pairs(nodes, attempts))
	var failed int
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	if failed > 0 {
		s.log.Warnf("%d of %d key exchanges failed\n", failed, len(outcomes))
	} else {
		s.log.Infof("All %d key exchanges succeeded\n", len(outcomes))
	}
	return outcomes, nil
}

func (s *Simulator) generate(nodes types.NodeSet) (keyring, error) {
	s.log.Infof("Generating %d %s key pairs\n", nodes.Len(), s.curve.ID())
	ring := make(keyring, nodes.Len())
	for _, id := range nodes.IDs() {
		k, err := s.curve.GenerateKey(s.entropy)
		if err != nil {
			ring.destroy()
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		ring[id] = k
	}
	return ring, nil
}

// pairs draws every (sender, receiver) pair up front from the selection
// source, so results do not depend on how attempts are scheduled.
func (s *Simulator) pairs(nodes types.NodeSet, attempts uint32) []pair {
	n := nodes.Len()
	out := make([]pair, attempts)
	for k := range out {
		var si int
		switch s.selection {
		case RoundRobin:
			si = k % n
		default:
			si = s.rng.IntN(n)
		}
		ri := s.rng.IntN(n)
		for ri == si {
			ri = s.rng.IntN(n)
		}
		out[k] = pair{
			attempt:  uint32(k),
			sender:   nodes.At(si),
			receiver: nodes.At(ri),
		}
	}
	return out
}

func (s *Simulator) exchange(ring keyring, pairs []pair) []Outcome {
	l := newLedger(len(pairs), s.progress)
	if s.workers > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for _, p := range pairs {
			p := p
			g.Go(func() error {
				l.record(s.attempt(ring, p))
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, p := range pairs {
			l.record(s.attempt(ring, p))
		}
	}
	return l.outcomes()
}

func (s *Simulator) attempt(ring keyring, p pair) Outcome {
	o := Outcome{
		Attempt:  p.attempt,
		Sender:   p.sender,
		Receiver: p.receiver,
	}
	if err := verify(ring[p.sender], ring[p.receiver]); err != nil {
		o.Reason = err.Error()
		s.log.Debugf("Attempt %d: node %d -> node %d failed: %s\n", p.attempt, p.sender, p.receiver, o.Reason)
		return o
	}
	o.Success = true
	return o
}

// verify derives the secret on both sides and compares the results in
// constant time. Both secrets are wiped before returning.
func verify(sender, receiver party) error {
	if sender == nil || receiver == nil {
		return fmt.Errorf("%w: node has no key pair", types.ErrCryptoFailure)
	}
	ours, err := sender.SharedSecret(receiver.Public())
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}
	defer ours.Zero()
	theirs, err := receiver.SharedSecret(sender.Public())
	if err != nil {
		return fmt.Errorf("receiver: %w", err)
	}
	defer theirs.Zero()
	if !ours.Equal(theirs) {
		return ErrSecretMismatch
	}
	return nil
}
