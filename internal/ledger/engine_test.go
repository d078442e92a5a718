package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomabrook/cheese-ledger/internal/model"
)

const (
	ownerUser    = uint64(101)
	producerUser = uint64(202)
	strangerUser = uint64(303)
)

// fixture bundles an engine over a MemStore with one facility, one
// slot, one producer and one variety pre-registered.
type fixture struct {
	eng        *Engine
	store      *MemStore
	facilityID uint64
	slotID     uint64
	producerID uint64
	varietyID  uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := NewMemStore()
	eng := New(store.Stores(), WithClock(func() int64 { return 42 }))

	ctx := context.Background()
	facilityID, err := eng.RegisterFacility(ctx, RegisterFacility{
		Name:             "Vermont Aging Caves",
		Location:         "Greensboro, VT",
		CapacityKg:       5000,
		TemperatureRange: "10-13°C",
		HumidityRange:    "85-95%",
		OwnerID:          ownerUser,
	})
	if err != nil {
		t.Fatalf("RegisterFacility: %v", err)
	}
	slotID, err := eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID:  facilityID,
		Name:        "Cave A Shelf 1",
		CapacityKg:  500,
		Temperature: "11°C",
		Humidity:    "88%",
		Caller:      ownerUser,
	})
	if err != nil {
		t.Fatalf("AddFacilitySlot: %v", err)
	}
	producerID := store.AddProducer(model.Producer{
		Name:         "Jasper Hill Farm",
		Region:       "Vermont",
		RegisteredBy: producerUser,
		Active:       true,
	})
	varietyID := store.AddCheeseVariety(model.CheeseVariety{
		ProducerID:    producerID,
		Name:          "Bayley Hazen Blue",
		MilkType:      "Raw Cow",
		Style:         "Blue",
		AgingTimeDays: 120,
	})
	return &fixture{
		eng:        eng,
		store:      store,
		facilityID: facilityID,
		slotID:     slotID,
		producerID: producerID,
		varietyID:  varietyID,
	}
}

func (f *fixture) book(t *testing.T, start, end int64) (uint64, error) {
	t.Helper()
	return f.eng.BookAgingSlot(context.Background(), BookingRequest{
		FacilityID:      f.facilityID,
		SlotID:          f.slotID,
		ProducerID:      f.producerID,
		CheeseVarietyID: f.varietyID,
		BatchIdentifier: "BHB-2024-001",
		StartTime:       start,
		EndTime:         end,
	})
}

func (f *fixture) mustBook(t *testing.T, start, end int64) uint64 {
	t.Helper()
	id, err := f.book(t, start, end)
	if err != nil {
		t.Fatalf("BookAgingSlot [%d,%d): %v", start, end, err)
	}
	return id
}

func TestRegisterFacilityAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id2, err := f.eng.RegisterFacility(ctx, RegisterFacility{
		Name: "Cellars at Hardwick", CapacityKg: 8000, OwnerID: ownerUser,
	})
	if err != nil {
		t.Fatalf("RegisterFacility: %v", err)
	}
	if id2 != f.facilityID+1 {
		t.Fatalf("expected id %d, got %d", f.facilityID+1, id2)
	}
	got, err := f.eng.Facility(ctx, id2)
	if err != nil {
		t.Fatalf("Facility: %v", err)
	}
	if !got.Active {
		t.Fatal("new facility should start active")
	}
}

func TestFacilityNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.eng.Facility(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetFacilityActiveOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.eng.SetFacilityActive(ctx, f.facilityID, false, strangerUser); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := f.eng.SetFacilityActive(ctx, f.facilityID, false, ownerUser); err != nil {
		t.Fatalf("SetFacilityActive: %v", err)
	}
	got, err := f.eng.Facility(ctx, f.facilityID)
	if err != nil {
		t.Fatalf("Facility: %v", err)
	}
	if got.Active {
		t.Fatal("facility should be inactive")
	}
}

func TestAddSlotCapacityLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 500 kg already used; another 4500 fills the facility exactly.
	if _, err := f.eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID: f.facilityID, Name: "Cave A Shelf 2", CapacityKg: 4500, Caller: ownerUser,
	}); err != nil {
		t.Fatalf("AddFacilitySlot at exact capacity: %v", err)
	}
	// Facility is full now.
	if _, err := f.eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID: f.facilityID, Name: "Cave A Shelf 3", CapacityKg: 1, Caller: ownerUser,
	}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestAddSlotChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID: 9999, Name: "x", CapacityKg: 10, Caller: ownerUser,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID: f.facilityID, Name: "x", CapacityKg: 10, Caller: strangerUser,
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := f.eng.SetFacilityActive(ctx, f.facilityID, false, ownerUser); err != nil {
		t.Fatalf("SetFacilityActive: %v", err)
	}
	if _, err := f.eng.AddFacilitySlot(ctx, AddSlot{
		FacilityID: f.facilityID, Name: "x", CapacityKg: 10, Caller: ownerUser,
	}); !errors.Is(err, ErrInactiveFacility) {
		t.Fatalf("expected ErrInactiveFacility, got %v", err)
	}
}

func TestFacilitySlotMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherFacility, err := f.eng.RegisterFacility(ctx, RegisterFacility{
		Name: "Other Cellar", CapacityKg: 1000, OwnerID: ownerUser,
	})
	if err != nil {
		t.Fatalf("RegisterFacility: %v", err)
	}

	// Known slot under the wrong facility is a mismatch, not a miss.
	if _, err := f.eng.FacilitySlot(ctx, otherFacility, f.slotID); !errors.Is(err, ErrSlotMismatch) {
		t.Fatalf("expected ErrSlotMismatch, got %v", err)
	}
	if _, err := f.eng.FacilitySlot(ctx, f.facilityID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetSlotAvailableOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.eng.SetSlotAvailable(ctx, f.facilityID, f.slotID, false, strangerUser); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := f.eng.SetSlotAvailable(ctx, f.facilityID, f.slotID, false, ownerUser); err != nil {
		t.Fatalf("SetSlotAvailable: %v", err)
	}
	if _, err := f.book(t, 0, 100); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestBookAgingSlotValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  BookingRequest
		want error
	}{
		{"unknown facility", BookingRequest{FacilityID: 9999, SlotID: f.slotID, ProducerID: f.producerID, CheeseVarietyID: f.varietyID, StartTime: 0, EndTime: 10}, ErrNotFound},
		{"unknown slot", BookingRequest{FacilityID: f.facilityID, SlotID: 9999, ProducerID: f.producerID, CheeseVarietyID: f.varietyID, StartTime: 0, EndTime: 10}, ErrNotFound},
		{"empty window", BookingRequest{FacilityID: f.facilityID, SlotID: f.slotID, ProducerID: f.producerID, CheeseVarietyID: f.varietyID, StartTime: 10, EndTime: 10}, ErrInvalidTimeRange},
		{"inverted window", BookingRequest{FacilityID: f.facilityID, SlotID: f.slotID, ProducerID: f.producerID, CheeseVarietyID: f.varietyID, StartTime: 20, EndTime: 10}, ErrInvalidTimeRange},
		{"unknown producer", BookingRequest{FacilityID: f.facilityID, SlotID: f.slotID, ProducerID: 9999, CheeseVarietyID: f.varietyID, StartTime: 0, EndTime: 10}, ErrNotFound},
		{"unknown variety", BookingRequest{FacilityID: f.facilityID, SlotID: f.slotID, ProducerID: f.producerID, CheeseVarietyID: 9999, StartTime: 0, EndTime: 10}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.eng.BookAgingSlot(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBookingBackToBackWindows(t *testing.T) {
	f := newFixture(t)

	f.mustBook(t, 100, 200)
	// [200, 300) touches but does not overlap [100, 200).
	f.mustBook(t, 200, 300)
	f.mustBook(t, 0, 100)
}

func TestBookingOverlapConflict(t *testing.T) {
	f := newFixture(t)

	f.mustBook(t, 100, 200)

	overlapping := [][2]int64{
		{150, 250}, // overlaps tail
		{50, 150},  // overlaps head
		{100, 200}, // identical
		{120, 180}, // contained
		{50, 250},  // containing
		{199, 300}, // one unit of overlap
	}
	for _, w := range overlapping {
		if _, err := f.book(t, w[0], w[1]); !errors.Is(err, ErrSlotConflict) {
			t.Fatalf("window [%d,%d): expected ErrSlotConflict, got %v", w[0], w[1], err)
		}
	}
}

func TestBookingConflictIgnoresFinalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mustBook(t, 100, 200)
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusCancelled, producerUser); err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	// The cancelled booking no longer claims its window.
	f.mustBook(t, 100, 200)
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mustBook(t, 0, 100)

	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusCompleted, producerUser); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("BOOKED->COMPLETED: expected ErrInvalidTransition, got %v", err)
	}
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusInProgress, producerUser); err != nil {
		t.Fatalf("BOOKED->IN_PROGRESS: %v", err)
	}
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusBooked, producerUser); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("IN_PROGRESS->BOOKED: expected ErrInvalidTransition, got %v", err)
	}
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusCompleted, producerUser); err != nil {
		t.Fatalf("IN_PROGRESS->COMPLETED: %v", err)
	}
	// COMPLETED is terminal.
	for _, next := range []model.BookingStatus{model.StatusBooked, model.StatusInProgress, model.StatusCancelled, model.StatusCompleted} {
		if err := f.eng.UpdateBookingStatus(ctx, id, next, producerUser); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("COMPLETED->%s: expected ErrInvalidTransition, got %v", next, err)
		}
	}
}

func TestUpdateBookingStatusAuthority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mustBook(t, 0, 100)

	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusInProgress, strangerUser); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// The facility owner also holds authority over the booking.
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusInProgress, ownerUser); err != nil {
		t.Fatalf("owner transition: %v", err)
	}
	if err := f.eng.UpdateBookingStatus(ctx, 9999, model.StatusInProgress, producerUser); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordEnvironmentalReading(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mustBook(t, 0, 100)

	rid, err := f.eng.RecordEnvironmentalReading(ctx, ReadingRequest{
		BookingID: id, Temperature: 11, Humidity: 88, Notes: "stable",
	})
	if err != nil {
		t.Fatalf("RecordEnvironmentalReading: %v", err)
	}
	r, err := f.eng.EnvironmentalReading(ctx, rid)
	if err != nil {
		t.Fatalf("EnvironmentalReading: %v", err)
	}
	if r.RecordedAt != 42 {
		t.Fatalf("expected clock timestamp 42, got %d", r.RecordedAt)
	}
	if r.Temperature != 11 || r.Humidity != 88 {
		t.Fatalf("unexpected reading: %+v", r)
	}

	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusCancelled, producerUser); err != nil {
		t.Fatalf("UpdateBookingStatus: %v", err)
	}
	if _, err := f.eng.RecordEnvironmentalReading(ctx, ReadingRequest{BookingID: id, Temperature: 12, Humidity: 90}); !errors.Is(err, ErrBookingNotActive) {
		t.Fatalf("expected ErrBookingNotActive, got %v", err)
	}

	readings, err := f.eng.BookingReadings(ctx, id)
	if err != nil {
		t.Fatalf("BookingReadings: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
}

func TestBookingListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id1 := f.mustBook(t, 0, 100)
	id2 := f.mustBook(t, 100, 200)

	bySlot, err := f.eng.SlotBookings(ctx, f.facilityID, f.slotID)
	if err != nil {
		t.Fatalf("SlotBookings: %v", err)
	}
	if len(bySlot) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bySlot))
	}

	byProducer, err := f.eng.ProducerBookings(ctx, f.producerID)
	if err != nil {
		t.Fatalf("ProducerBookings: %v", err)
	}
	if len(byProducer) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(byProducer))
	}
	_ = id1
	_ = id2

	if _, err := f.eng.ProducerBookings(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestAgingScenario walks one full season: register, book a 12-week
// window, run it to completion with readings along the way.
func TestAgingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.eng.BookAgingSlot(ctx, BookingRequest{
		FacilityID:      f.facilityID,
		SlotID:          f.slotID,
		ProducerID:      f.producerID,
		CheeseVarietyID: f.varietyID,
		BatchIdentifier: "BHB-2024-014",
		StartTime:       12500,
		EndTime:         24500,
		Notes:           "winter batch",
	})
	if err != nil {
		t.Fatalf("BookAgingSlot: %v", err)
	}

	b, err := f.eng.SlotBooking(ctx, id)
	if err != nil {
		t.Fatalf("SlotBooking: %v", err)
	}
	if b.Status != model.StatusBooked {
		t.Fatalf("expected BOOKED, got %s", b.Status)
	}

	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusInProgress, producerUser); err != nil {
		t.Fatalf("start aging: %v", err)
	}
	if _, err := f.eng.RecordEnvironmentalReading(ctx, ReadingRequest{BookingID: id, Temperature: 11, Humidity: 88}); err != nil {
		t.Fatalf("record reading: %v", err)
	}
	if err := f.eng.UpdateBookingStatus(ctx, id, model.StatusCompleted, producerUser); err != nil {
		t.Fatalf("complete: %v", err)
	}

	b, err = f.eng.SlotBooking(ctx, id)
	if err != nil {
		t.Fatalf("SlotBooking: %v", err)
	}
	if b.Status != model.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", b.Status)
	}
}

// TestConcurrentBookingSingleWinner races many goroutines at the same
// window on one slot.  Exactly one must win; everyone else gets
// ErrSlotConflict.
func TestConcurrentBookingSingleWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.book(t, 1000, 2000)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}
