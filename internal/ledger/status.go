package ledger

import "github.com/tomabrook/cheese-ledger/internal/model"

// transitions is the closed booking status machine.  BOOKED may begin
// aging or be cancelled; IN_PROGRESS may finish or be cancelled early.
// COMPLETED and CANCELLED are terminal: they appear only as values,
// never as keys, so no transition can regress a finalized booking.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusBooked:     {model.StatusInProgress, model.StatusCancelled},
	model.StatusInProgress: {model.StatusCompleted, model.StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another.  Self-transitions are not allowed.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
