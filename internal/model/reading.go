package model

import "time"

// EnvironmentalReading is a single temperature/humidity observation
// logged against an active booking.  Readings are append-only: once
// created they are never mutated or deleted.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking the reading belongs to.
//  Temperature – observed temperature in °C.
//  Humidity    – observed relative humidity in percent.
//  Notes       – free text.
//  RecordedAt  – logical timestamp assigned by the ledger at append time.
//  CreatedAt   – row creation timestamp.
type EnvironmentalReading struct {
	ID          uint64    // environmental_readings.id
	BookingID   uint64    // environmental_readings.booking_id
	Temperature int32     // environmental_readings.temperature
	Humidity    int32     // environmental_readings.humidity
	Notes       string    // environmental_readings.notes
	RecordedAt  int64     // environmental_readings.recorded_at
	CreatedAt   time.Time // environmental_readings.created_at
}
