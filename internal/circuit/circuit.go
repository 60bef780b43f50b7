// Package circuit wraps github.com/sony/gobreaker into a manual-reset
// latch for the risk manager's consecutive-loss circuit breaker. Unlike
// a typical gobreaker deployment, this breaker never transitions to
// half-open on its own: the timeout is set far beyond any realistic
// run so the only path back to closed is an explicit Reset.
package circuit

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// errLoss is the sentinel fed to gobreaker.Execute to record one
// losing trade; its content never reaches a caller.
var errLoss = errors.New("losing trade")

// Breaker latches after a configured number of consecutive losing
// trades (spec §4.3) and blocks new entries until Reset is called by
// the operator.
type Breaker struct {
	name      string
	threshold int
	cb        *gobreaker.CircuitBreaker
}

// New builds a Breaker that trips after threshold consecutive
// failures recorded via RecordLoss.
func New(name string, threshold int) *Breaker {
	b := &Breaker{name: name, threshold: threshold}
	b.cb = b.newInner()
	return b
}

func (b *Breaker) newInner() *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{
		Name: b.name,
		// Interval 0 never clears failure counts on its own; counts
		// are cleared only by RecordWin or a manual Reset.
		Interval: 0,
		// Timeout is set far beyond any realistic run: gobreaker's
		// automatic half-open recovery is disabled by policy (spec
		// §4.3 "until an explicit manual reset").
		Timeout: 24 * 365 * time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= b.threshold
		},
	}
	return gobreaker.NewCircuitBreaker(st)
}

// RecordLoss registers one losing trade. Returns true if this call
// caused the breaker to trip open.
func (b *Breaker) RecordLoss() bool {
	wasOpen := b.cb.State() == gobreaker.StateOpen
	_, _ = b.cb.Execute(func() (any, error) { return nil, errLoss })
	return !wasOpen && b.cb.State() == gobreaker.StateOpen
}

// RecordWin registers one non-losing trade, clearing the consecutive
// failure streak.
func (b *Breaker) RecordWin() {
	_, _ = b.cb.Execute(func() (any, error) { return nil, nil })
}

// Triggered reports whether the breaker currently blocks new entries.
func (b *Breaker) Triggered() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// Reset manually closes the breaker and clears its failure count,
// the only way back to closed short of process restart (spec §4.3,
// §6 reset_circuit_breaker).
func (b *Breaker) Reset() {
	b.cb = b.newInner()
}
