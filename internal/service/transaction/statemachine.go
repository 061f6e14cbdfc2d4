package transaction

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/portalenergy/chargehub/internal/domain"
)

// Session lifecycle events. The graph only ever moves forward: nothing can
// return a session to an earlier state or skip a required predecessor.
const (
	EventStart         = "start"
	EventReject        = "reject"
	EventCancel        = "cancel"
	EventBeginCharging = "begin_charging"
	EventComplete      = "complete"
)

var transitions = fsm.Events{
	{Name: EventStart, Src: []string{string(domain.TransactionStateRequested)}, Dst: string(domain.TransactionStateStarted)},
	{Name: EventReject, Src: []string{string(domain.TransactionStateRequested)}, Dst: string(domain.TransactionStateRejected)},
	{Name: EventCancel, Src: []string{string(domain.TransactionStateRequested), string(domain.TransactionStateStarted)}, Dst: string(domain.TransactionStateCancelled)},
	{Name: EventBeginCharging, Src: []string{string(domain.TransactionStateStarted)}, Dst: string(domain.TransactionStateCharging)},
	{Name: EventComplete, Src: []string{string(domain.TransactionStateStarted), string(domain.TransactionStateCharging)}, Dst: string(domain.TransactionStateCompleted)},
}

// nextState runs one lifecycle event against the current state and returns
// the resulting state, or ErrInvalidState when the transition is not in the
// graph.
func nextState(state domain.TransactionState, event string) (domain.TransactionState, error) {
	machine := fsm.NewFSM(string(state), transitions, nil)
	if err := machine.Event(context.Background(), event); err != nil {
		return state, fmt.Errorf("%w: cannot %s from %s", domain.ErrInvalidState, event, state)
	}
	return domain.TransactionState(machine.Current()), nil
}
