package model

import "time"

// Producer is a registered cheese maker.  The user who registered the
// record is its authority: only they may update it or toggle its
// active flag, and they act on the producer's behalf when booking
// aging slots.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – creamery name.
//  Location        – free-text location.
//  Region          – production region used for provenance claims.
//  EstablishedYear – year the creamery was founded.
//  ContactInfo     – free-text contact details.
//  RegisteredBy    – user ID of the registering authority.
//  Active          – whether the producer may create new bookings.
//  CreatedAt       – registration timestamp.
//  UpdatedAt       – last update timestamp.
type Producer struct {
	ID              uint64    // producers.id
	Name            string    // producers.name
	Location        string    // producers.location
	Region          string    // producers.region
	EstablishedYear uint16    // producers.established_year
	ContactInfo     string    // producers.contact_info
	RegisteredBy    uint64    // producers.registered_by
	Active          bool      // producers.active
	CreatedAt       time.Time // producers.created_at
	UpdatedAt       time.Time // producers.updated_at
}
