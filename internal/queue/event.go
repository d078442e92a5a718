// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when an aging slot booking is
// successfully created.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	SlotID          uint64 `json:"slot_id"`
	SlotName        string `json:"slot_name"`
	FacilityID      uint64 `json:"facility_id"`
	FacilityName    string `json:"facility_name"`
	ProducerID      uint64 `json:"producer_id"`
	ProducerName    string `json:"producer_name"`
	CheeseVarietyID uint64 `json:"cheese_variety_id"`
	VarietyName     string `json:"variety_name"`
	BatchIdentifier string `json:"batch_identifier"`
	StartTime       int64  `json:"start_time"`
	EndTime         int64  `json:"end_time"`
	CreatedAt       string `json:"created_at"`
}

// BookingStatusEvent is published when a booking transitions between
// lifecycle states.
type BookingStatusEvent struct {
	BookingID  uint64 `json:"booking_id"`
	SlotID     uint64 `json:"slot_id"`
	FacilityID uint64 `json:"facility_id"`
	ProducerID uint64 `json:"producer_id"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	ChangedAt  string `json:"changed_at"`
}
