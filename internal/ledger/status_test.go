package ledger

import (
	"testing"

	"github.com/tomabrook/cheese-ledger/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.BookingStatus
		want     bool
	}{
		{model.StatusBooked, model.StatusInProgress, true},
		{model.StatusBooked, model.StatusCancelled, true},
		{model.StatusBooked, model.StatusCompleted, false},
		{model.StatusBooked, model.StatusBooked, false},
		{model.StatusInProgress, model.StatusCompleted, true},
		{model.StatusInProgress, model.StatusCancelled, true},
		{model.StatusInProgress, model.StatusBooked, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusInProgress, false},
		{model.StatusCancelled, model.StatusBooked, false},
		{model.StatusCancelled, model.StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !model.StatusCompleted.Terminal() || !model.StatusCancelled.Terminal() {
		t.Fatal("COMPLETED and CANCELLED must be terminal")
	}
	if model.StatusBooked.Terminal() || model.StatusInProgress.Terminal() {
		t.Fatal("BOOKED and IN_PROGRESS must not be terminal")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []model.BookingStatus{model.StatusBooked, model.StatusInProgress, model.StatusCompleted, model.StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if model.BookingStatus("EXPIRED").Valid() {
		t.Error("unknown status should not be valid")
	}
}
