package model

import "time"

// Facility represents a physical aging facility (cave, cellar or
// climate-controlled warehouse) registered by its owner.  A facility
// contains multiple aging slots whose combined capacity may never
// exceed the facility's total capacity.  Facilities are never deleted;
// the Active flag is the only mutable field after registration.
//
// Fields:
//  ID               – primary key identifier.
//  OwnerID          – user ID of the facility owner.
//  Name             – human readable facility name.
//  Location         – free-text location description.
//  CapacityKg       – total storage capacity in kilograms.
//  TemperatureRange – advertised temperature range, e.g. "10-12°C".
//  HumidityRange    – advertised humidity range, e.g. "85-90%".
//  Active           – whether the facility accepts new slots.
//  CreatedAt        – registration timestamp.
//  UpdatedAt        – last update timestamp.
type Facility struct {
	ID               uint64    // facilities.id
	OwnerID          uint64    // facilities.owner_id
	Name             string    // facilities.name
	Location         string    // facilities.location
	CapacityKg       uint32    // facilities.capacity_kg
	TemperatureRange string    // facilities.temperature_range
	HumidityRange    string    // facilities.humidity_range
	Active           bool      // facilities.active
	CreatedAt        time.Time // facilities.created_at
	UpdatedAt        time.Time // facilities.updated_at
}
