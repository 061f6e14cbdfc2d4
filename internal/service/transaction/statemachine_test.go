package transaction

import (
	"errors"
	"testing"

	"github.com/portalenergy/chargehub/internal/domain"
)

func TestNextState_LegalTransitions(t *testing.T) {
	cases := []struct {
		from  domain.TransactionState
		event string
		want  domain.TransactionState
	}{
		{domain.TransactionStateRequested, EventStart, domain.TransactionStateStarted},
		{domain.TransactionStateRequested, EventReject, domain.TransactionStateRejected},
		{domain.TransactionStateRequested, EventCancel, domain.TransactionStateCancelled},
		{domain.TransactionStateStarted, EventCancel, domain.TransactionStateCancelled},
		{domain.TransactionStateStarted, EventBeginCharging, domain.TransactionStateCharging},
		{domain.TransactionStateStarted, EventComplete, domain.TransactionStateCompleted},
		{domain.TransactionStateCharging, EventComplete, domain.TransactionStateCompleted},
	}

	for _, tc := range cases {
		got, err := nextState(tc.from, tc.event)
		if err != nil {
			t.Errorf("%s from %s: expected no error, got %v", tc.event, tc.from, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s from %s: expected %s, got %s", tc.event, tc.from, tc.want, got)
		}
	}
}

func TestNextState_NeverMovesBackwards(t *testing.T) {
	cases := []struct {
		from  domain.TransactionState
		event string
	}{
		{domain.TransactionStateRequested, EventComplete},
		{domain.TransactionStateRequested, EventBeginCharging},
		{domain.TransactionStateCharging, EventStart},
		{domain.TransactionStateCharging, EventCancel},
		{domain.TransactionStateCompleted, EventStart},
		{domain.TransactionStateCompleted, EventComplete},
		{domain.TransactionStateRejected, EventStart},
		{domain.TransactionStateCancelled, EventComplete},
	}

	for _, tc := range cases {
		got, err := nextState(tc.from, tc.event)
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("%s from %s: expected ErrInvalidState, got %v", tc.event, tc.from, err)
		}
		if got != tc.from {
			t.Errorf("%s from %s: expected state unchanged, got %s", tc.event, tc.from, got)
		}
	}
}
