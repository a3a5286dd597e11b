package dom

import pkgerrors "github.com/pkg/errors"

// CycleAttempt is the panic value raised by arena mutators when a
// requested mutation would create a cycle (spec §7 "CycleAttempt... MUST
// reject (panic/error) any call that would make node == parent or place
// a node in its own descendant chain"). Structural invariant violations
// are programmer errors, so the library panics rather than returning an
// error, per spec §7's stated recovery policy.
type CycleAttempt struct {
	Reason string
	cause  error
}

func (c CycleAttempt) Error() string {
	if c.cause != nil {
		return pkgerrors.Wrap(c.cause, "dom: cycle attempt: "+c.Reason).Error()
	}
	return "dom: cycle attempt: " + c.Reason
}

func (c CycleAttempt) Unwrap() error { return c.cause }
