package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/tomabrook/cheese-ledger/internal/model"
)

// FacilityStore persists facilities.  Create assigns and returns the
// next sequential identifier; Get must return ErrNotFound for unknown
// ids.
type FacilityStore interface {
	CreateFacility(ctx context.Context, f *model.Facility) (uint64, error)
	GetFacility(ctx context.Context, id uint64) (*model.Facility, error)
	SetFacilityActive(ctx context.Context, id uint64, active bool) error
}

// SlotStore persists slots.  Slot ids are globally unique.
type SlotStore interface {
	CreateSlot(ctx context.Context, s *model.Slot) (uint64, error)
	GetSlot(ctx context.Context, id uint64) (*model.Slot, error)
	ListSlotsByFacility(ctx context.Context, facilityID uint64) ([]model.Slot, error)
	// SlotCapacityUsedKg returns the sum of capacity_kg over all slots
	// of the facility.
	SlotCapacityUsedKg(ctx context.Context, facilityID uint64) (uint64, error)
	SetSlotAvailable(ctx context.Context, id uint64, available bool) error
}

// BookingStore persists bookings.  ListActiveBySlot returns only
// bookings with status BOOKED or IN_PROGRESS.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *model.Booking) (uint64, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListActiveBySlot(ctx context.Context, slotID uint64) ([]model.Booking, error)
	ListBySlot(ctx context.Context, slotID uint64) ([]model.Booking, error)
	ListByProducer(ctx context.Context, producerID uint64) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error
}

// ReadingStore persists environmental readings.  Readings are
// append-only; no update or delete methods exist.
type ReadingStore interface {
	CreateReading(ctx context.Context, r *model.EnvironmentalReading) (uint64, error)
	GetReading(ctx context.Context, id uint64) (*model.EnvironmentalReading, error)
	ListReadingsByBooking(ctx context.Context, bookingID uint64) ([]model.EnvironmentalReading, error)
}

// RegistryStore gives the engine read access to the producer and
// variety record stores so it can validate booking references and
// resolve the producer's registering authority for status changes.
type RegistryStore interface {
	GetProducer(ctx context.Context, id uint64) (*model.Producer, error)
	GetCheeseVariety(ctx context.Context, id uint64) (*model.CheeseVariety, error)
}

// Stores bundles the persistence interfaces the engine needs.
type Stores struct {
	Facilities FacilityStore
	Slots      SlotStore
	Bookings   BookingStore
	Readings   ReadingStore
	Registry   RegistryStore
}

// Engine is the aging-slot booking engine.  All mutating operations
// run their check-then-act section under a keyed mutex so that the
// non-overlap and capacity invariants hold under concurrent calls.
type Engine struct {
	stores Stores
	locks  *keyedMutex
	now    func() int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's logical clock.  Tests use this to
// supply deterministic timestamps.
func WithClock(now func() int64) Option {
	return func(e *Engine) { e.now = now }
}

// New constructs an Engine over the given stores.  All store fields
// must be non-nil.
func New(stores Stores, opts ...Option) *Engine {
	if stores.Facilities == nil || stores.Slots == nil || stores.Bookings == nil ||
		stores.Readings == nil || stores.Registry == nil {
		panic("nil store passed to ledger.New")
	}
	e := &Engine{
		stores: stores,
		locks:  newKeyedMutex(),
		now:    func() int64 { return time.Now().UTC().Unix() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func facilityKey(id uint64) string { return fmt.Sprintf("facility/%d", id) }
func slotKey(id uint64) string     { return fmt.Sprintf("slot/%d", id) }
func bookingKey(id uint64) string  { return fmt.Sprintf("booking/%d", id) }

// RegisterFacility describes a new facility registration.
type RegisterFacility struct {
	Name             string
	Location         string
	CapacityKg       uint32
	TemperatureRange string
	HumidityRange    string
	OwnerID          uint64
}

// RegisterFacility creates a facility and returns its identifier.
// New facilities start active.
func (e *Engine) RegisterFacility(ctx context.Context, in RegisterFacility) (uint64, error) {
	f := &model.Facility{
		OwnerID:          in.OwnerID,
		Name:             in.Name,
		Location:         in.Location,
		CapacityKg:       in.CapacityKg,
		TemperatureRange: in.TemperatureRange,
		HumidityRange:    in.HumidityRange,
		Active:           true,
	}
	return e.stores.Facilities.CreateFacility(ctx, f)
}

// Facility returns the facility with the given id or ErrNotFound.
func (e *Engine) Facility(ctx context.Context, id uint64) (*model.Facility, error) {
	return e.stores.Facilities.GetFacility(ctx, id)
}

// SetFacilityActive toggles a facility's active flag.  Only the owner
// may call; anyone else gets ErrUnauthorized.
func (e *Engine) SetFacilityActive(ctx context.Context, facilityID uint64, active bool, caller uint64) error {
	unlock := e.locks.lock(facilityKey(facilityID))
	defer unlock()

	f, err := e.stores.Facilities.GetFacility(ctx, facilityID)
	if err != nil {
		return err
	}
	if f.OwnerID != caller {
		return ErrUnauthorized
	}
	return e.stores.Facilities.SetFacilityActive(ctx, facilityID, active)
}

// AddSlot describes a new slot under a facility.
type AddSlot struct {
	FacilityID  uint64
	Name        string
	CapacityKg  uint32
	Temperature string
	Humidity    string
	Caller      uint64
}

// AddFacilitySlot creates a slot under a facility.  The capacity-sum
// check and the insert run under the facility's lock so concurrent
// additions cannot oversell the facility.  Only the facility owner
// may add slots.  New slots start available.
func (e *Engine) AddFacilitySlot(ctx context.Context, in AddSlot) (uint64, error) {
	unlock := e.locks.lock(facilityKey(in.FacilityID))
	defer unlock()

	f, err := e.stores.Facilities.GetFacility(ctx, in.FacilityID)
	if err != nil {
		return 0, err
	}
	if f.OwnerID != in.Caller {
		return 0, ErrUnauthorized
	}
	if !f.Active {
		return 0, ErrInactiveFacility
	}
	used, err := e.stores.Slots.SlotCapacityUsedKg(ctx, in.FacilityID)
	if err != nil {
		return 0, err
	}
	if used+uint64(in.CapacityKg) > uint64(f.CapacityKg) {
		return 0, ErrCapacityExceeded
	}
	s := &model.Slot{
		FacilityID:  in.FacilityID,
		Name:        in.Name,
		CapacityKg:  in.CapacityKg,
		Temperature: in.Temperature,
		Humidity:    in.Humidity,
		Available:   true,
	}
	return e.stores.Slots.CreateSlot(ctx, s)
}

// FacilitySlot returns a slot, verifying it belongs to the named
// facility.  Unknown slot ids yield ErrNotFound; a slot under a
// different facility yields ErrSlotMismatch.
func (e *Engine) FacilitySlot(ctx context.Context, facilityID, slotID uint64) (*model.Slot, error) {
	s, err := e.stores.Slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if s.FacilityID != facilityID {
		return nil, ErrSlotMismatch
	}
	return s, nil
}

// FacilitySlots lists all slots under a facility.
func (e *Engine) FacilitySlots(ctx context.Context, facilityID uint64) ([]model.Slot, error) {
	if _, err := e.stores.Facilities.GetFacility(ctx, facilityID); err != nil {
		return nil, err
	}
	return e.stores.Slots.ListSlotsByFacility(ctx, facilityID)
}

// SetSlotAvailable toggles a slot's manual availability flag.  The
// flag is an administrative override and does not derive from booking
// occupancy.  Only the facility owner may call.
func (e *Engine) SetSlotAvailable(ctx context.Context, facilityID, slotID uint64, available bool, caller uint64) error {
	if _, err := e.FacilitySlot(ctx, facilityID, slotID); err != nil {
		return err
	}
	f, err := e.stores.Facilities.GetFacility(ctx, facilityID)
	if err != nil {
		return err
	}
	if f.OwnerID != caller {
		return ErrUnauthorized
	}
	return e.stores.Slots.SetSlotAvailable(ctx, slotID, available)
}

// BookingRequest describes an aging-slot booking attempt.  StartTime
// and EndTime form a half-open window [StartTime, EndTime).
type BookingRequest struct {
	FacilityID      uint64
	SlotID          uint64
	ProducerID      uint64
	CheeseVarietyID uint64
	BatchIdentifier string
	StartTime       int64
	EndTime         int64
	Notes           string
}

// overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect.  Back-to-back windows do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}

// BookAgingSlot allocates an exclusive time window on a slot and
// returns the new booking id.  The conflict scan over active bookings
// and the insert run as a single critical section under the slot's
// lock, so two concurrent attempts with intersecting windows can
// never both succeed.
func (e *Engine) BookAgingSlot(ctx context.Context, in BookingRequest) (uint64, error) {
	if _, err := e.stores.Facilities.GetFacility(ctx, in.FacilityID); err != nil {
		return 0, err
	}
	slot, err := e.stores.Slots.GetSlot(ctx, in.SlotID)
	if err != nil {
		return 0, err
	}
	if slot.FacilityID != in.FacilityID {
		return 0, ErrSlotMismatch
	}
	if in.StartTime >= in.EndTime {
		return 0, ErrInvalidTimeRange
	}
	if !slot.Available {
		return 0, ErrSlotUnavailable
	}
	if _, err := e.stores.Registry.GetProducer(ctx, in.ProducerID); err != nil {
		return 0, err
	}
	if _, err := e.stores.Registry.GetCheeseVariety(ctx, in.CheeseVarietyID); err != nil {
		return 0, err
	}

	unlock := e.locks.lock(slotKey(in.SlotID))
	defer unlock()

	active, err := e.stores.Bookings.ListActiveBySlot(ctx, in.SlotID)
	if err != nil {
		return 0, err
	}
	for i := range active {
		if overlaps(in.StartTime, in.EndTime, active[i].StartTime, active[i].EndTime) {
			return 0, ErrSlotConflict
		}
	}
	b := &model.Booking{
		SlotID:          in.SlotID,
		FacilityID:      in.FacilityID,
		ProducerID:      in.ProducerID,
		CheeseVarietyID: in.CheeseVarietyID,
		BatchIdentifier: in.BatchIdentifier,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Status:          model.StatusBooked,
		Notes:           in.Notes,
	}
	return e.stores.Bookings.CreateBooking(ctx, b)
}

// SlotBooking returns the booking with the given id or ErrNotFound.
func (e *Engine) SlotBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return e.stores.Bookings.GetBooking(ctx, id)
}

// SlotBookings lists every booking ever made on a slot, after
// verifying the slot belongs to the facility.
func (e *Engine) SlotBookings(ctx context.Context, facilityID, slotID uint64) ([]model.Booking, error) {
	if _, err := e.FacilitySlot(ctx, facilityID, slotID); err != nil {
		return nil, err
	}
	return e.stores.Bookings.ListBySlot(ctx, slotID)
}

// ProducerBookings lists all bookings made for a producer.
func (e *Engine) ProducerBookings(ctx context.Context, producerID uint64) ([]model.Booking, error) {
	if _, err := e.stores.Registry.GetProducer(ctx, producerID); err != nil {
		return nil, err
	}
	return e.stores.Bookings.ListByProducer(ctx, producerID)
}

// UpdateBookingStatus applies one transition of the booking status
// machine.  Only the booking's producer (its registering authority)
// or the facility owner may call.  The read-check-write sequence runs
// under the booking's lock so concurrent transitions serialize and a
// finalized booking can never change again.
func (e *Engine) UpdateBookingStatus(ctx context.Context, bookingID uint64, next model.BookingStatus, caller uint64) error {
	unlock := e.locks.lock(bookingKey(bookingID))
	defer unlock()

	b, err := e.stores.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := e.authorizeBookingCaller(ctx, b, caller); err != nil {
		return err
	}
	if !next.Valid() || !CanTransition(b.Status, next) {
		return ErrInvalidTransition
	}
	return e.stores.Bookings.UpdateBookingStatus(ctx, bookingID, next)
}

// authorizeBookingCaller checks that caller is the booking producer's
// registering authority or the owner of the facility.
func (e *Engine) authorizeBookingCaller(ctx context.Context, b *model.Booking, caller uint64) error {
	p, err := e.stores.Registry.GetProducer(ctx, b.ProducerID)
	if err != nil {
		return err
	}
	if p.RegisteredBy == caller {
		return nil
	}
	f, err := e.stores.Facilities.GetFacility(ctx, b.FacilityID)
	if err != nil {
		return err
	}
	if f.OwnerID == caller {
		return nil
	}
	return ErrUnauthorized
}

// ReadingRequest describes an environmental reading submission.
type ReadingRequest struct {
	BookingID   uint64
	Temperature int32
	Humidity    int32
	Notes       string
}

// RecordEnvironmentalReading appends a reading to a booking's log and
// returns the new reading id.  The booking must still be active; the
// check and the append run under the booking's lock so a concurrent
// finalization cannot slip a reading past the gate.
func (e *Engine) RecordEnvironmentalReading(ctx context.Context, in ReadingRequest) (uint64, error) {
	unlock := e.locks.lock(bookingKey(in.BookingID))
	defer unlock()

	b, err := e.stores.Bookings.GetBooking(ctx, in.BookingID)
	if err != nil {
		return 0, err
	}
	if !b.Active() {
		return 0, ErrBookingNotActive
	}
	r := &model.EnvironmentalReading{
		BookingID:   in.BookingID,
		Temperature: in.Temperature,
		Humidity:    in.Humidity,
		Notes:       in.Notes,
		RecordedAt:  e.now(),
	}
	return e.stores.Readings.CreateReading(ctx, r)
}

// EnvironmentalReading returns the reading with the given id or
// ErrNotFound.
func (e *Engine) EnvironmentalReading(ctx context.Context, id uint64) (*model.EnvironmentalReading, error) {
	return e.stores.Readings.GetReading(ctx, id)
}

// BookingReadings lists all readings appended to a booking, oldest
// first.
func (e *Engine) BookingReadings(ctx context.Context, bookingID uint64) ([]model.EnvironmentalReading, error) {
	if _, err := e.stores.Bookings.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return e.stores.Readings.ListReadingsByBooking(ctx, bookingID)
}
