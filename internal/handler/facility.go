package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// FacilityHandler serves facility and slot endpoints.  All mutations
// go through the ledger engine so its invariants hold.
type FacilityHandler struct {
	Ledger *ledger.Engine
}

func NewFacilityHandler(eng *ledger.Engine) *FacilityHandler {
	if eng == nil {
		panic("nil engine passed to NewFacilityHandler")
	}
	return &FacilityHandler{Ledger: eng}
}

type facilityResp struct {
	ID               uint64    `json:"id"`
	OwnerID          uint64    `json:"owner_id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	CapacityKg       uint32    `json:"capacity_kg"`
	TemperatureRange string    `json:"temperature_range"`
	HumidityRange    string    `json:"humidity_range"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toFacilityResp(f *model.Facility) facilityResp {
	return facilityResp{
		ID:               f.ID,
		OwnerID:          f.OwnerID,
		Name:             f.Name,
		Location:         f.Location,
		CapacityKg:       f.CapacityKg,
		TemperatureRange: f.TemperatureRange,
		HumidityRange:    f.HumidityRange,
		Active:           f.Active,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

type slotResp struct {
	ID          uint64    `json:"id"`
	FacilityID  uint64    `json:"facility_id"`
	Name        string    `json:"name"`
	CapacityKg  uint32    `json:"capacity_kg"`
	Temperature string    `json:"temperature"`
	Humidity    string    `json:"humidity"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSlotResp(s *model.Slot) slotResp {
	return slotResp{
		ID:          s.ID,
		FacilityID:  s.FacilityID,
		Name:        s.Name,
		CapacityKg:  s.CapacityKg,
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Available:   s.Available,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// RegisterFacility handles POST /v1/facilities.
func (h *FacilityHandler) RegisterFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name             string `json:"name"`
		Location         string `json:"location"`
		CapacityKg       uint32 `json:"capacity_kg"`
		TemperatureRange string `json:"temperature_range"`
		HumidityRange    string `json:"humidity_range"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.CapacityKg == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity_kg must be positive"})
	}

	id, err := h.Ledger.RegisterFacility(c.Request().Context(), ledger.RegisterFacility{
		Name:             name,
		Location:         strings.TrimSpace(body.Location),
		CapacityKg:       body.CapacityKg,
		TemperatureRange: strings.TrimSpace(body.TemperatureRange),
		HumidityRange:    strings.TrimSpace(body.HumidityRange),
		OwnerID:          ownerID,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	f, err := h.Ledger.Facility(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, toFacilityResp(f))
}

// GetFacility handles GET /v1/facilities/:id.
func (h *FacilityHandler) GetFacility(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Ledger.Facility(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toFacilityResp(f))
}

// SetFacilityActive handles PATCH /v1/facilities/:id/active.
func (h *FacilityHandler) SetFacilityActive(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil || body.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}
	if err := h.Ledger.SetFacilityActive(c.Request().Context(), id, *body.Active, caller); err != nil {
		return ledgerError(c, err)
	}
	f, err := h.Ledger.Facility(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toFacilityResp(f))
}

// AddSlot handles POST /v1/facilities/:id/slots.
func (h *FacilityHandler) AddSlot(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	facilityID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        string `json:"name"`
		CapacityKg  uint32 `json:"capacity_kg"`
		Temperature string `json:"temperature"`
		Humidity    string `json:"humidity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.CapacityKg == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity_kg must be positive"})
	}

	id, err := h.Ledger.AddFacilitySlot(c.Request().Context(), ledger.AddSlot{
		FacilityID:  facilityID,
		Name:        name,
		CapacityKg:  body.CapacityKg,
		Temperature: strings.TrimSpace(body.Temperature),
		Humidity:    strings.TrimSpace(body.Humidity),
		Caller:      caller,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	s, err := h.Ledger.FacilitySlot(c.Request().Context(), facilityID, id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, toSlotResp(s))
}

// GetSlot handles GET /v1/facilities/:id/slots/:slot_id.
func (h *FacilityHandler) GetSlot(c echo.Context) error {
	facilityID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	slotID, err := pathID(c, "slot_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot_id"})
	}
	s, err := h.Ledger.FacilitySlot(c.Request().Context(), facilityID, slotID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResp(s))
}

// ListSlots handles GET /v1/facilities/:id/slots.
func (h *FacilityHandler) ListSlots(c echo.Context) error {
	facilityID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	slots, err := h.Ledger.FacilitySlots(c.Request().Context(), facilityID)
	if err != nil {
		return ledgerError(c, err)
	}
	items := make([]slotResp, 0, len(slots))
	for i := range slots {
		items = append(items, toSlotResp(&slots[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SetSlotAvailable handles PATCH /v1/facilities/:id/slots/:slot_id/available.
func (h *FacilityHandler) SetSlotAvailable(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	facilityID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	slotID, err := pathID(c, "slot_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot_id"})
	}
	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&body); err != nil || body.Available == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available is required"})
	}
	if err := h.Ledger.SetSlotAvailable(c.Request().Context(), facilityID, slotID, *body.Available, caller); err != nil {
		return ledgerError(c, err)
	}
	s, err := h.Ledger.FacilitySlot(c.Request().Context(), facilityID, slotID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResp(s))
}
