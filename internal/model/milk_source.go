package model

import "time"

// MilkSource records where a producer's milk comes from.  It exists
// purely for provenance: nothing else in the ledger references it.
//
// Fields:
//  ID            – primary key identifier.
//  ProducerID    – producer this source supplies.
//  Name          – farm or herd name.
//  AnimalType    – e.g. "Cow", "Goat", "Sheep".
//  Organic       – organic certification claim.
//  PastureRaised – pasture-raised claim.
//  Location      – free-text location.
//  Notes         – free text.
//  CreatedAt     – registration timestamp.
type MilkSource struct {
	ID            uint64    // milk_sources.id
	ProducerID    uint64    // milk_sources.producer_id
	Name          string    // milk_sources.name
	AnimalType    string    // milk_sources.animal_type
	Organic       bool      // milk_sources.organic
	PastureRaised bool      // milk_sources.pasture_raised
	Location      string    // milk_sources.location
	Notes         string    // milk_sources.notes
	CreatedAt     time.Time // milk_sources.created_at
}
