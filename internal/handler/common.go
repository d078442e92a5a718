// Package handler defines the HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ledgerError translates engine sentinel errors into JSON responses.
// Unknown errors become a generic 500.
func ledgerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, ledger.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, ledger.ErrInvalidTimeRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	case errors.Is(err, ledger.ErrSlotMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot does not belong to facility"})
	case errors.Is(err, ledger.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot is unavailable"})
	case errors.Is(err, ledger.ErrSlotConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked for that time window"})
	case errors.Is(err, ledger.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "facility capacity exceeded"})
	case errors.Is(err, ledger.ErrInactiveFacility):
		return c.JSON(http.StatusConflict, echo.Map{"error": "facility is inactive"})
	case errors.Is(err, ledger.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, ledger.ErrBookingNotActive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not active"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
