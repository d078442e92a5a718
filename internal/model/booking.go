package model

import "time"

// BookingStatus enumerates the lifecycle states of a slot booking.
// Transitions are validated by the ledger engine; COMPLETED and
// CANCELLED are terminal.
type BookingStatus string

const (
	StatusBooked     BookingStatus = "BOOKED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Booking is an exclusive reservation of a slot for a half-open time
// window [StartTime, EndTime).  Start and end times are logical
// timestamps supplied by the caller (unix seconds in production).
// A booking is immutable after creation except for Status, which only
// the ledger engine's transition function may change.
//
// Fields:
//  ID              – primary key identifier (global).
//  SlotID          – slot being reserved.
//  FacilityID      – facility owning the slot (denormalised for
//                    ownership checks without an extra lookup).
//  ProducerID      – producer record the batch belongs to.
//  CheeseVarietyID – variety being aged.
//  BatchIdentifier – caller-supplied batch label, not unique.
//  StartTime       – window start (inclusive).
//  EndTime         – window end (exclusive), must exceed StartTime.
//  Status          – lifecycle state, initially BOOKED.
//  Notes           – free text.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last status change timestamp.
type Booking struct {
	ID              uint64        // bookings.id
	SlotID          uint64        // bookings.slot_id
	FacilityID      uint64        // bookings.facility_id
	ProducerID      uint64        // bookings.producer_id
	CheeseVarietyID uint64        // bookings.cheese_variety_id
	BatchIdentifier string        // bookings.batch_identifier
	StartTime       int64         // bookings.start_time
	EndTime         int64         // bookings.end_time
	Status          BookingStatus // bookings.status
	Notes           string        // bookings.notes
	CreatedAt       time.Time     // bookings.created_at
	UpdatedAt       time.Time     // bookings.updated_at
}

// Active reports whether the booking currently claims its window.
// Only BOOKED and IN_PROGRESS bookings participate in conflict
// checks and accept environmental readings.
func (b *Booking) Active() bool {
	return b.Status == StatusBooked || b.Status == StatusInProgress
}
