// Package ledger implements the aging-slot booking engine: facility
// and slot registration with capacity accounting, exclusive
// time-window allocation on slots, the booking status state machine
// and the append-only environmental log.  Every mutating operation is
// all-or-nothing; the sentinel errors below are the only failure
// kinds callers need to distinguish.
package ledger

import "errors"

// ErrNotFound is returned when a referenced entity id does not exist.
// Store implementations must return it (possibly wrapped) from their
// Get methods so the engine and handlers can rely on errors.Is.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the caller lacks the required
// relationship to the entity (facility ownership or producer identity).
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTimeRange is returned when a booking window has
// start >= end.
var ErrInvalidTimeRange = errors.New("invalid time range")

// ErrSlotUnavailable is returned when the slot's manual availability
// flag is off.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrSlotConflict is returned when the requested window intersects an
// active booking on the same slot.
var ErrSlotConflict = errors.New("slot conflict")

// ErrSlotMismatch is returned when the slot exists but does not
// belong to the named facility.
var ErrSlotMismatch = errors.New("slot does not belong to facility")

// ErrCapacityExceeded is returned when adding a slot would push the
// sum of slot capacities past the facility's total capacity.
var ErrCapacityExceeded = errors.New("facility capacity exceeded")

// ErrInactiveFacility is returned when adding a slot to a facility
// whose active flag is off.
var ErrInactiveFacility = errors.New("facility inactive")

// ErrInvalidTransition is returned for illegal booking status
// changes, including any transition out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrBookingNotActive is returned when a reading is submitted against
// a completed or cancelled booking.
var ErrBookingNotActive = errors.New("booking not active")
