package treesink

import "fmt"

// InvalidOption reports a parser option whose value is outside its
// documented domain (spec §7 "InvalidOption(field)").
type InvalidOption struct {
	Field  string
	Detail string
}

func (e InvalidOption) Error() string {
	return fmt.Sprintf("treesink: invalid option %q: %s", e.Field, e.Detail)
}

// StateExhausted reports a second call to Driver.Finalize, or any feed
// call after finalize, per spec §4.E "finalize is single-shot".
type StateExhausted struct{}

func (StateExhausted) Error() string { return "treesink: driver already finalized" }
