// Package repository implements MySQL persistence for the ledger and
// its surrounding record stores.  Missing rows are reported with
// ledger.ErrNotFound so that handlers and the engine can rely on a
// single error kind; the sentinels below cover the repository-local
// failure cases on top of that.
package repository

import "errors"

// ErrEmailExists is returned when registering a user with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an insert collides with existing
// dependent state, such as recording a second result for a quality
// test that already has one.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")
