package exchange

import (
	"sort"

	"github.com/Arceliar/phony"
)

// ledger is the append-only outcome log for one run. Appends may come from
// any goroutine; the actor serialises them.
type ledger struct {
	phony.Inbox
	_outcomes []Outcome
	_progress func()
}

func newLedger(capacity int, progress func()) *ledger {
	return &ledger{
		_outcomes: make([]Outcome, 0, capacity),
		_progress: progress,
	}
}

func (l *ledger) record(o Outcome) {
	l.Act(nil, func() {
		l._outcomes = append(l._outcomes, o)
		if l._progress != nil {
			l._progress()
		}
	})
}

// outcomes waits for every previously recorded outcome to land and returns
// them ordered by attempt.
func (l *ledger) outcomes() []Outcome {
	var out []Outcome
	phony.Block(l, func() {
		out = make([]Outcome, len(l._outcomes))
		copy(out, l._outcomes)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Attempt < out[j].Attempt
	})
	return out
}
