package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusForming,
	StatusCreated,
	StatusPayed,
	StatusSendToSupplier,
	StatusInProcess,
	StatusInDelivery,
	StatusDelivered,
	StatusCompleted,
	StatusCancelledBySupplier,
	StatusCancelledByFactory,
}

func TestCanTransition_AllowedPairs(t *testing.T) {
	allowed := map[Status][]Status{
		StatusForming:        {StatusCreated},
		StatusCreated:        {StatusPayed, StatusSendToSupplier, StatusCancelledByFactory},
		StatusPayed:          {StatusCancelledByFactory},
		StatusSendToSupplier: {StatusInProcess, StatusCancelledByFactory, StatusCancelledBySupplier},
		StatusInProcess:      {StatusInDelivery, StatusCancelledByFactory, StatusCancelledBySupplier},
		StatusInDelivery:     {StatusDelivered},
		StatusDelivered:      {StatusCompleted},
	}

	for _, current := range allStatuses {
		for _, target := range allStatuses {
			want := false
			for _, a := range allowed[current] {
				if a == target {
					want = true
				}
			}
			got := CanTransition(current, target)
			assert.Equal(t, want, got, "%s -> %s", current, target)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelledBySupplier, StatusCancelledByFactory} {
		assert.True(t, terminal.IsTerminal())
		for _, target := range allStatuses {
			assert.False(t, CanTransition(terminal, target), "%s -> %s", terminal, target)
		}
	}
}

func TestStatus_IsCancellation(t *testing.T) {
	for _, s := range allStatuses {
		want := s == StatusCancelledByFactory || s == StatusCancelledBySupplier
		assert.Equal(t, want, s.IsCancellation(), string(s))
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("SHIPPED").Valid())
	assert.False(t, Status("").Valid())
}
