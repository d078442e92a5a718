package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
	"github.com/tomabrook/cheese-ledger/internal/queue"
	queue_publisher "github.com/tomabrook/cheese-ledger/internal/service"
)

// BookingHandler serves booking and environmental reading endpoints.
// It keeps a copy of the engine's stores for read-only event
// enrichment; all mutations go through the engine.
type BookingHandler struct {
	Ledger *ledger.Engine
	Stores ledger.Stores
}

func NewBookingHandler(eng *ledger.Engine, stores ledger.Stores) *BookingHandler {
	if eng == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Ledger: eng, Stores: stores}
}

type bookingResp struct {
	ID              uint64    `json:"id"`
	SlotID          uint64    `json:"slot_id"`
	FacilityID      uint64    `json:"facility_id"`
	ProducerID      uint64    `json:"producer_id"`
	CheeseVarietyID uint64    `json:"cheese_variety_id"`
	BatchIdentifier string    `json:"batch_identifier"`
	StartTime       int64     `json:"start_time"`
	EndTime         int64     `json:"end_time"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		SlotID:          b.SlotID,
		FacilityID:      b.FacilityID,
		ProducerID:      b.ProducerID,
		CheeseVarietyID: b.CheeseVarietyID,
		BatchIdentifier: b.BatchIdentifier,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          string(b.Status),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FacilityID      uint64 `json:"facility_id"`
		SlotID          uint64 `json:"slot_id"`
		ProducerID      uint64 `json:"producer_id"`
		CheeseVarietyID uint64 `json:"cheese_variety_id"`
		BatchIdentifier string `json:"batch_identifier"`
		StartTime       int64  `json:"start_time"`
		EndTime         int64  `json:"end_time"`
		Notes           string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.BatchIdentifier) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "batch_identifier is required"})
	}

	ctx := c.Request().Context()
	id, err := h.Ledger.BookAgingSlot(ctx, ledger.BookingRequest{
		FacilityID:      body.FacilityID,
		SlotID:          body.SlotID,
		ProducerID:      body.ProducerID,
		CheeseVarietyID: body.CheeseVarietyID,
		BatchIdentifier: strings.TrimSpace(body.BatchIdentifier),
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		Notes:           body.Notes,
	})
	if err != nil {
		return ledgerError(c, err)
	}

	b, err := h.Ledger.SlotBooking(ctx, id)
	if err != nil {
		return ledgerError(c, err)
	}

	h.publishCreated(b)

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// publishCreated emits a booking.created event in the background.
// Broker failures are logged by the publisher and never affect the
// request.
func (h *BookingHandler) publishCreated(b *model.Booking) {
	ev := queue.BookingCreatedEvent{
		BookingID:       b.ID,
		SlotID:          b.SlotID,
		FacilityID:      b.FacilityID,
		ProducerID:      b.ProducerID,
		CheeseVarietyID: b.CheeseVarietyID,
		BatchIdentifier: b.BatchIdentifier,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if s, err := h.Stores.Slots.GetSlot(ctx, b.SlotID); err == nil {
		ev.SlotName = s.Name
	}
	if f, err := h.Stores.Facilities.GetFacility(ctx, b.FacilityID); err == nil {
		ev.FacilityName = f.Name
	}
	if p, err := h.Stores.Registry.GetProducer(ctx, b.ProducerID); err == nil {
		ev.ProducerName = p.Name
	}
	if v, err := h.Stores.Registry.GetCheeseVariety(ctx, b.CheeseVarietyID); err == nil {
		ev.VarietyName = v.Name
	}
	go func() {
		defer cancel()
		_ = queue_publisher.PublishBookingCreated(ctx, ev)
	}()
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Ledger.SlotBooking(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// ListSlotBookings handles GET /v1/facilities/:id/slots/:slot_id/bookings.
func (h *BookingHandler) ListSlotBookings(c echo.Context) error {
	facilityID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	slotID, err := pathID(c, "slot_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot_id"})
	}
	bookings, err := h.Ledger.SlotBookings(c.Request().Context(), facilityID, slotID)
	if err != nil {
		return ledgerError(c, err)
	}
	items := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListProducerBookings handles GET /v1/producers/:id/bookings.
func (h *BookingHandler) ListProducerBookings(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	bookings, err := h.Ledger.ProducerBookings(c.Request().Context(), producerID)
	if err != nil {
		return ledgerError(c, err)
	}
	items := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	next := model.BookingStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if !next.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	before, err := h.Ledger.SlotBooking(ctx, id)
	if err != nil {
		return ledgerError(c, err)
	}
	if err := h.Ledger.UpdateBookingStatus(ctx, id, next, caller); err != nil {
		return ledgerError(c, err)
	}
	after, err := h.Ledger.SlotBooking(ctx, id)
	if err != nil {
		return ledgerError(c, err)
	}

	ev := queue.BookingStatusEvent{
		BookingID:  after.ID,
		SlotID:     after.SlotID,
		FacilityID: after.FacilityID,
		ProducerID: after.ProducerID,
		OldStatus:  string(before.Status),
		NewStatus:  string(after.Status),
		ChangedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingStatus(ctx, ev)
	}()

	return c.JSON(http.StatusOK, toBookingResp(after))
}
