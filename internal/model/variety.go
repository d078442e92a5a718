package model

import "time"

// CheeseVariety describes one named cheese made by a producer, such
// as an alpine blue or a washed-rind tomme.
//
// Fields:
//  ID            – primary key identifier.
//  ProducerID    – producer who makes this variety.
//  Name          – variety name.
//  MilkType      – e.g. "Raw Cow", "Pasteurised Goat".
//  Style         – e.g. "Blue", "Alpine", "Bloomy Rind".
//  AgingTimeDays – nominal aging duration in days.
//  Description   – free-text description.
//  CreatedAt     – registration timestamp.
type CheeseVariety struct {
	ID            uint64    // cheese_varieties.id
	ProducerID    uint64    // cheese_varieties.producer_id
	Name          string    // cheese_varieties.name
	MilkType      string    // cheese_varieties.milk_type
	Style         string    // cheese_varieties.style
	AgingTimeDays uint32    // cheese_varieties.aging_time_days
	Description   string    // cheese_varieties.description
	CreatedAt     time.Time // cheese_varieties.created_at
}
