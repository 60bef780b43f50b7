// Package errs names the error taxonomy from spec §7. Provider
// transport errors are recovered locally and never reach this
// package; domain rejections are plain values (Rejection), while
// invariant violations and unknown symbol/position references are
// Go errors returned to the command that raised them.
package errs

import "fmt"

// Rejection is a non-error value returned by a gate or the paper
// trader when a requested action is declined for a domain reason
// (insufficient margin, entry gate failed, unknown symbol). It is
// surfaced to the operator, never thrown.
type Rejection struct {
	Reason string
}

func (r Rejection) String() string { return r.Reason }

// Reject builds a Rejection from a formatted reason.
func Reject(format string, args ...any) Rejection {
	return Rejection{Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation represents an internal consistency failure that
// must abort the current command while leaving the account
// consistent.
type InvariantViolation struct {
	Component string
	Detail    string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Component, e.Detail)
}

// NewInvariantViolation constructs an InvariantViolation error.
func NewInvariantViolation(component, detail string) error {
	return InvariantViolation{Component: component, Detail: detail}
}

// UnknownSymbol is returned by operator commands referencing a symbol
// the screener does not track.
type UnknownSymbol struct {
	Symbol string
}

func (e UnknownSymbol) Error() string {
	return fmt.Sprintf("unknown symbol: %s", e.Symbol)
}

// UnknownPosition is returned by operator commands referencing a
// position id the paper trader does not hold.
type UnknownPosition struct {
	ID string
}

func (e UnknownPosition) Error() string {
	return fmt.Sprintf("unknown position: %s", e.ID)
}
