package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

type readingResp struct {
	ID          uint64    `json:"id"`
	BookingID   uint64    `json:"booking_id"`
	Temperature int32     `json:"temperature"`
	Humidity    int32     `json:"humidity"`
	Notes       string    `json:"notes,omitempty"`
	RecordedAt  int64     `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReadingResp(r *model.EnvironmentalReading) readingResp {
	return readingResp{
		ID:          r.ID,
		BookingID:   r.BookingID,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Notes:       r.Notes,
		RecordedAt:  r.RecordedAt,
		CreatedAt:   r.CreatedAt,
	}
}

// RecordReading handles POST /v1/bookings/:id/readings.
func (h *BookingHandler) RecordReading(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Temperature *int32 `json:"temperature"`
		Humidity    *int32 `json:"humidity"`
		Notes       string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil || body.Temperature == nil || body.Humidity == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "temperature and humidity are required"})
	}

	ctx := c.Request().Context()
	id, err := h.Ledger.RecordEnvironmentalReading(ctx, ledger.ReadingRequest{
		BookingID:   bookingID,
		Temperature: *body.Temperature,
		Humidity:    *body.Humidity,
		Notes:       body.Notes,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	r, err := h.Ledger.EnvironmentalReading(ctx, id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, toReadingResp(r))
}

// GetReading handles GET /v1/readings/:id.
func (h *BookingHandler) GetReading(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	r, err := h.Ledger.EnvironmentalReading(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResp(r))
}

// ListBookingReadings handles GET /v1/bookings/:id/readings.
func (h *BookingHandler) ListBookingReadings(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	readings, err := h.Ledger.BookingReadings(c.Request().Context(), bookingID)
	if err != nil {
		return ledgerError(c, err)
	}
	items := make([]readingResp, 0, len(readings))
	for i := range readings {
		items = append(items, toReadingResp(&readings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
