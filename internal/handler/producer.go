package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
	"github.com/tomabrook/cheese-ledger/internal/repository"
)

// ProducerHandler serves producer, cheese variety and milk source
// endpoints.  These are simple record stores; the only rule enforced
// here is that a producer record may only be changed by the user who
// registered it.
type ProducerHandler struct {
	Producers   *repository.ProducerRepo
	Varieties   *repository.VarietyRepo
	MilkSources *repository.MilkSourceRepo
}

func NewProducerHandler(p *repository.ProducerRepo, v *repository.VarietyRepo, m *repository.MilkSourceRepo) *ProducerHandler {
	if p == nil || v == nil || m == nil {
		panic("nil repository passed to NewProducerHandler")
	}
	return &ProducerHandler{Producers: p, Varieties: v, MilkSources: m}
}

type producerResp struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Region          string    `json:"region"`
	EstablishedYear uint16    `json:"established_year"`
	ContactInfo     string    `json:"contact_info"`
	RegisteredBy    uint64    `json:"registered_by"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toProducerResp(p *model.Producer) producerResp {
	return producerResp{
		ID:              p.ID,
		Name:            p.Name,
		Location:        p.Location,
		Region:          p.Region,
		EstablishedYear: p.EstablishedYear,
		ContactInfo:     p.ContactInfo,
		RegisteredBy:    p.RegisteredBy,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type varietyResp struct {
	ID            uint64    `json:"id"`
	ProducerID    uint64    `json:"producer_id"`
	Name          string    `json:"name"`
	MilkType      string    `json:"milk_type"`
	Style         string    `json:"style"`
	AgingTimeDays uint32    `json:"aging_time_days"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toVarietyResp(v *model.CheeseVariety) varietyResp {
	return varietyResp{
		ID:            v.ID,
		ProducerID:    v.ProducerID,
		Name:          v.Name,
		MilkType:      v.MilkType,
		Style:         v.Style,
		AgingTimeDays: v.AgingTimeDays,
		Description:   v.Description,
		CreatedAt:     v.CreatedAt,
	}
}

type milkSourceResp struct {
	ID            uint64    `json:"id"`
	ProducerID    uint64    `json:"producer_id"`
	Name          string    `json:"name"`
	AnimalType    string    `json:"animal_type"`
	Organic       bool      `json:"organic"`
	PastureRaised bool      `json:"pasture_raised"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toMilkSourceResp(m *model.MilkSource) milkSourceResp {
	return milkSourceResp{
		ID:            m.ID,
		ProducerID:    m.ProducerID,
		Name:          m.Name,
		AnimalType:    m.AnimalType,
		Organic:       m.Organic,
		PastureRaised: m.PastureRaised,
		Location:      m.Location,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// authority loads the producer and verifies the caller registered it.
func (h *ProducerHandler) authority(c echo.Context, producerID uint64) (*model.Producer, error) {
	caller, err := getUserID(c)
	if err != nil {
		return nil, ledger.ErrUnauthorized
	}
	p, err := h.Producers.GetProducer(c.Request().Context(), producerID)
	if err != nil {
		return nil, err
	}
	if p.RegisteredBy != caller {
		return nil, ledger.ErrUnauthorized
	}
	return p, nil
}

// RegisterProducer handles POST /v1/producers.
func (h *ProducerHandler) RegisterProducer(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name            string `json:"name"`
		Location        string `json:"location"`
		Region          string `json:"region"`
		EstablishedYear uint16 `json:"established_year"`
		ContactInfo     string `json:"contact_info"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	p := &model.Producer{
		Name:            name,
		Location:        strings.TrimSpace(body.Location),
		Region:          strings.TrimSpace(body.Region),
		EstablishedYear: body.EstablishedYear,
		ContactInfo:     strings.TrimSpace(body.ContactInfo),
		RegisteredBy:    caller,
		Active:          true,
	}
	if _, err := h.Producers.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create producer"})
	}
	return c.JSON(http.StatusCreated, toProducerResp(p))
}

// GetProducer handles GET /v1/producers/:id.
func (h *ProducerHandler) GetProducer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Producers.GetProducer(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toProducerResp(p))
}

// UpdateProducer handles PUT /v1/producers/:id.  Only the registering
// user may update; absent fields keep their current value.
func (h *ProducerHandler) UpdateProducer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.authority(c, id)
	if err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Name            *string `json:"name"`
		Location        *string `json:"location"`
		Region          *string `json:"region"`
		EstablishedYear *uint16 `json:"established_year"`
		ContactInfo     *string `json:"contact_info"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		p.Name = name
	}
	if body.Location != nil {
		p.Location = strings.TrimSpace(*body.Location)
	}
	if body.Region != nil {
		p.Region = strings.TrimSpace(*body.Region)
	}
	if body.EstablishedYear != nil {
		p.EstablishedYear = *body.EstablishedYear
	}
	if body.ContactInfo != nil {
		p.ContactInfo = strings.TrimSpace(*body.ContactInfo)
	}

	if err := h.Producers.Update(c.Request().Context(), p); err != nil {
		return ledgerError(c, err)
	}
	updated, err := h.Producers.GetProducer(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toProducerResp(updated))
}

// SetProducerStatus handles PATCH /v1/producers/:id/active.
func (h *ProducerHandler) SetProducerStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.authority(c, id); err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil || body.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}
	if err := h.Producers.SetActive(c.Request().Context(), id, *body.Active); err != nil {
		return ledgerError(c, err)
	}
	p, err := h.Producers.GetProducer(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toProducerResp(p))
}

// RegisterVariety handles POST /v1/producers/:id/varieties.
func (h *ProducerHandler) RegisterVariety(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.authority(c, producerID); err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Name          string `json:"name"`
		MilkType      string `json:"milk_type"`
		Style         string `json:"style"`
		AgingTimeDays uint32 `json:"aging_time_days"`
		Description   string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	v := &model.CheeseVariety{
		ProducerID:    producerID,
		Name:          name,
		MilkType:      strings.TrimSpace(body.MilkType),
		Style:         strings.TrimSpace(body.Style),
		AgingTimeDays: body.AgingTimeDays,
		Description:   body.Description,
	}
	if _, err := h.Varieties.Create(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create variety"})
	}
	return c.JSON(http.StatusCreated, toVarietyResp(v))
}

// GetVariety handles GET /v1/varieties/:id.
func (h *ProducerHandler) GetVariety(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Varieties.GetCheeseVariety(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toVarietyResp(v))
}

// ListProducerVarieties handles GET /v1/producers/:id/varieties.
func (h *ProducerHandler) ListProducerVarieties(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Producers.GetProducer(c.Request().Context(), producerID); err != nil {
		return ledgerError(c, err)
	}
	varieties, err := h.Varieties.ListByProducer(c.Request().Context(), producerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]varietyResp, 0, len(varieties))
	for i := range varieties {
		items = append(items, toVarietyResp(&varieties[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RegisterMilkSource handles POST /v1/producers/:id/milk-sources.
func (h *ProducerHandler) RegisterMilkSource(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.authority(c, producerID); err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Name          string `json:"name"`
		AnimalType    string `json:"animal_type"`
		Organic       bool   `json:"organic"`
		PastureRaised bool   `json:"pasture_raised"`
		Location      string `json:"location"`
		Notes         string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	m := &model.MilkSource{
		ProducerID:    producerID,
		Name:          name,
		AnimalType:    strings.TrimSpace(body.AnimalType),
		Organic:       body.Organic,
		PastureRaised: body.PastureRaised,
		Location:      strings.TrimSpace(body.Location),
		Notes:         body.Notes,
	}
	if _, err := h.MilkSources.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create milk source"})
	}
	return c.JSON(http.StatusCreated, toMilkSourceResp(m))
}

// GetMilkSource handles GET /v1/milk-sources/:id.
func (h *ProducerHandler) GetMilkSource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.MilkSources.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toMilkSourceResp(m))
}
