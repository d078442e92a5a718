package model

import "time"

// Slot describes a bookable storage unit inside a facility, for
// example a shelf section of a cave.  Slot IDs are globally unique so
// that a booking can reference its slot without ambiguity; the
// FacilityID field ties the slot back to its parent.  The Available
// flag is a manual administrative switch and is independent of
// booking occupancy.
//
// Fields:
//  ID          – primary key identifier (global).
//  FacilityID  – parent facility.
//  Name        – human readable slot name.
//  CapacityKg  – slot capacity in kilograms, checked against the
//                facility total at creation time.
//  Temperature – slot temperature, e.g. "11°C".
//  Humidity    – slot humidity, e.g. "88%".
//  Available   – manual availability override.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Slot struct {
	ID          uint64    // slots.id
	FacilityID  uint64    // slots.facility_id
	Name        string    // slots.name
	CapacityKg  uint32    // slots.capacity_kg
	Temperature string    // slots.temperature
	Humidity    string    // slots.humidity
	Available   bool      // slots.available
	CreatedAt   time.Time // slots.created_at
	UpdatedAt   time.Time // slots.updated_at
}
