// File: bank/supervision.go
package bank

import (
	"fmt"
	"time"
)

// Directive is the action a shard takes after one of its account children
// reports a fault.
type Directive int

const (
	// DirectiveResume keeps the child's last valid state and drops the
	// message that caused the fault.
	DirectiveResume Directive = iota
	// DirectiveEscalate gives up on the child and fails the owning shard.
	DirectiveEscalate
)

// NegativeBalanceError is the one fault class the supervision policy
// tolerates. Account withdrawals currently drive balances negative without
// raising it; the policy stays in place for the day an invariant check is
// added.
type NegativeBalanceError struct {
	CustomerNumber int
	Balance        int
}

func (e NegativeBalanceError) Error() string {
	return fmt.Sprintf("account %d balance went negative: %d", e.CustomerNumber, e.Balance)
}

// classifyFault maps a child fault to a supervision directive: resume on a
// negative-balance fault, escalate everything else.
func classifyFault(reason interface{}) Directive {
	switch reason.(type) {
	case NegativeBalanceError, *NegativeBalanceError:
		return DirectiveResume
	default:
		return DirectiveEscalate
	}
}

// faultWindow counts faults per child inside a rolling time window.
type faultWindow struct {
	faults []time.Time
}

// record registers a fault at now and returns how many faults remain inside
// the window, the new one included.
func (w *faultWindow) record(now time.Time, window time.Duration) int {
	kept := w.faults[:0]
	for _, t := range w.faults {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	w.faults = append(kept, now)
	return len(w.faults)
}
