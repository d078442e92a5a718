package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/tomabrook/cheese-ledger/internal/model"
)

// MemStore is an in-memory implementation of every store interface
// the engine consumes.  Identifiers are process-wide counters per
// entity type, starting at 1 and never reused.  It backs the engine's
// unit tests and is safe for concurrent use.
type MemStore struct {
	mu sync.Mutex

	facilities map[uint64]model.Facility
	slots      map[uint64]model.Slot
	bookings   map[uint64]model.Booking
	readings   map[uint64]model.EnvironmentalReading
	producers  map[uint64]model.Producer
	varieties  map[uint64]model.CheeseVariety

	nextFacility uint64
	nextSlot     uint64
	nextBooking  uint64
	nextReading  uint64
	nextProducer uint64
	nextVariety  uint64
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		facilities:   make(map[uint64]model.Facility),
		slots:        make(map[uint64]model.Slot),
		bookings:     make(map[uint64]model.Booking),
		readings:     make(map[uint64]model.EnvironmentalReading),
		producers:    make(map[uint64]model.Producer),
		varieties:    make(map[uint64]model.CheeseVariety),
		nextFacility: 1,
		nextSlot:     1,
		nextBooking:  1,
		nextReading:  1,
		nextProducer: 1,
		nextVariety:  1,
	}
}

// Stores returns a Stores bundle with every field backed by m.
func (m *MemStore) Stores() Stores {
	return Stores{Facilities: m, Slots: m, Bookings: m, Readings: m, Registry: m}
}

func (m *MemStore) CreateFacility(_ context.Context, f *model.Facility) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = m.nextFacility
	m.nextFacility++
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt
	m.facilities[f.ID] = *f
	return f.ID, nil
}

func (m *MemStore) GetFacility(_ context.Context, id uint64) (*model.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.facilities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MemStore) SetFacilityActive(_ context.Context, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.facilities[id]
	if !ok {
		return ErrNotFound
	}
	f.Active = active
	f.UpdatedAt = time.Now().UTC()
	m.facilities[id] = f
	return nil
}

func (m *MemStore) CreateSlot(_ context.Context, s *model.Slot) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.nextSlot
	m.nextSlot++
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	m.slots[s.ID] = *s
	return s.ID, nil
}

func (m *MemStore) GetSlot(_ context.Context, id uint64) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemStore) ListSlotsByFacility(_ context.Context, facilityID uint64) ([]model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Slot, 0)
	for id := uint64(1); id < m.nextSlot; id++ {
		if s, ok := m.slots[id]; ok && s.FacilityID == facilityID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemStore) SlotCapacityUsedKg(_ context.Context, facilityID uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var used uint64
	for _, s := range m.slots {
		if s.FacilityID == facilityID {
			used += uint64(s.CapacityKg)
		}
	}
	return used, nil
}

func (m *MemStore) SetSlotAvailable(_ context.Context, id uint64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return ErrNotFound
	}
	s.Available = available
	s.UpdatedAt = time.Now().UTC()
	m.slots[id] = s
	return nil
}

func (m *MemStore) CreateBooking(_ context.Context, b *model.Booking) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextBooking
	m.nextBooking++
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = *b
	return b.ID, nil
}

func (m *MemStore) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *MemStore) ListActiveBySlot(_ context.Context, slotID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for id := uint64(1); id < m.nextBooking; id++ {
		b, ok := m.bookings[id]
		if ok && b.SlotID == slotID && b.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemStore) ListBySlot(_ context.Context, slotID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for id := uint64(1); id < m.nextBooking; id++ {
		if b, ok := m.bookings[id]; ok && b.SlotID == slotID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemStore) ListByProducer(_ context.Context, producerID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for id := uint64(1); id < m.nextBooking; id++ {
		if b, ok := m.bookings[id]; ok && b.ProducerID == producerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateBookingStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	m.bookings[id] = b
	return nil
}

func (m *MemStore) CreateReading(_ context.Context, r *model.EnvironmentalReading) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextReading
	m.nextReading++
	r.CreatedAt = time.Now().UTC()
	m.readings[r.ID] = *r
	return r.ID, nil
}

func (m *MemStore) GetReading(_ context.Context, id uint64) (*model.EnvironmentalReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.readings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemStore) ListReadingsByBooking(_ context.Context, bookingID uint64) ([]model.EnvironmentalReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.EnvironmentalReading, 0)
	for id := uint64(1); id < m.nextReading; id++ {
		if r, ok := m.readings[id]; ok && r.BookingID == bookingID {
			out = append(out, r)
		}
	}
	return out, nil
}

// AddProducer seeds a producer record and returns its id.  Used by
// tests to satisfy the engine's registry checks.
func (m *MemStore) AddProducer(p model.Producer) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextProducer
	m.nextProducer++
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.producers[p.ID] = p
	return p.ID
}

// AddCheeseVariety seeds a variety record and returns its id.
func (m *MemStore) AddCheeseVariety(v model.CheeseVariety) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.nextVariety
	m.nextVariety++
	v.CreatedAt = time.Now().UTC()
	m.varieties[v.ID] = v
	return v.ID
}

func (m *MemStore) GetProducer(_ context.Context, id uint64) (*model.Producer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.producers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemStore) GetCheeseVariety(_ context.Context, id uint64) (*model.CheeseVariety, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.varieties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}
