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

// QualityHandler serves quality test, test result and certified
// tester endpoints.  Recording a result and completing its test happen
// in one database transaction.
type QualityHandler struct {
	Tests     *repository.QualityTestRepo
	Results   *repository.TestResultRepo
	Testers   *repository.TesterRepo
	Producers *repository.ProducerRepo
	Varieties *repository.VarietyRepo
}

func NewQualityHandler(t *repository.QualityTestRepo, r *repository.TestResultRepo, te *repository.TesterRepo,
	p *repository.ProducerRepo, v *repository.VarietyRepo) *QualityHandler {
	if t == nil || r == nil || te == nil || p == nil || v == nil {
		panic("nil repository passed to NewQualityHandler")
	}
	return &QualityHandler{Tests: t, Results: r, Testers: te, Producers: p, Varieties: v}
}

type qualityTestResp struct {
	ID              uint64    `json:"id"`
	ProducerID      uint64    `json:"producer_id"`
	CheeseVarietyID uint64    `json:"cheese_variety_id"`
	BatchIdentifier string    `json:"batch_identifier"`
	TestType        string    `json:"test_type"`
	Status          string    `json:"status"`
	RequestedBy     uint64    `json:"requested_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toQualityTestResp(t *model.QualityTest) qualityTestResp {
	return qualityTestResp{
		ID:              t.ID,
		ProducerID:      t.ProducerID,
		CheeseVarietyID: t.CheeseVarietyID,
		BatchIdentifier: t.BatchIdentifier,
		TestType:        t.TestType,
		Status:          t.Status,
		RequestedBy:     t.RequestedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

type testResultResp struct {
	ID            uint64    `json:"id"`
	TestID        uint64    `json:"test_id"`
	SafetyPassed  bool      `json:"safety_passed"`
	FlavorProfile string    `json:"flavor_profile"`
	TextureNotes  string    `json:"texture_notes"`
	AromaNotes    string    `json:"aroma_notes"`
	OverallScore  uint8     `json:"overall_score"`
	DetailedNotes string    `json:"detailed_notes,omitempty"`
	VerifiedBy    uint64    `json:"verified_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTestResultResp(r *model.TestResult) testResultResp {
	return testResultResp{
		ID:            r.ID,
		TestID:        r.TestID,
		SafetyPassed:  r.SafetyPassed,
		FlavorProfile: r.FlavorProfile,
		TextureNotes:  r.TextureNotes,
		AromaNotes:    r.AromaNotes,
		OverallScore:  r.OverallScore,
		DetailedNotes: r.DetailedNotes,
		VerifiedBy:    r.VerifiedBy,
		CreatedAt:     r.CreatedAt,
	}
}

type testerResp struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	Name            string    `json:"name"`
	Organization    string    `json:"organization"`
	YearsExperience uint8     `json:"years_experience"`
	Certified       bool      `json:"certified"`
	Active          bool      `json:"active"`
	RegisteredBy    uint64    `json:"registered_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toTesterResp(t *model.CertifiedTester) testerResp {
	return testerResp{
		ID:              t.ID,
		UserID:          t.UserID,
		Name:            t.Name,
		Organization:    t.Organization,
		YearsExperience: t.YearsExperience,
		Certified:       t.Certified,
		Active:          t.Active,
		RegisteredBy:    t.RegisteredBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// RegisterQualityTest handles POST /v1/quality-tests.
func (h *QualityHandler) RegisterQualityTest(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ProducerID      uint64 `json:"producer_id"`
		CheeseVarietyID uint64 `json:"cheese_variety_id"`
		BatchIdentifier string `json:"batch_identifier"`
		TestType        string `json:"test_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.BatchIdentifier) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "batch_identifier is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Producers.GetProducer(ctx, body.ProducerID); err != nil {
		return ledgerError(c, err)
	}
	if _, err := h.Varieties.GetCheeseVariety(ctx, body.CheeseVarietyID); err != nil {
		return ledgerError(c, err)
	}

	t := &model.QualityTest{
		ProducerID:      body.ProducerID,
		CheeseVarietyID: body.CheeseVarietyID,
		BatchIdentifier: strings.TrimSpace(body.BatchIdentifier),
		TestType:        strings.TrimSpace(body.TestType),
		RequestedBy:     caller,
	}
	if _, err := h.Tests.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create quality test"})
	}
	return c.JSON(http.StatusCreated, toQualityTestResp(t))
}

// GetQualityTest handles GET /v1/quality-tests/:id.
func (h *QualityHandler) GetQualityTest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tests.GetByID(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toQualityTestResp(t))
}

// RecordTestResults handles POST /v1/quality-tests/:id/results.  The
// caller must operate a certified, active tester profile.  The result
// insert and the PENDING -> COMPLETED status change commit together.
func (h *QualityHandler) RecordTestResults(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	testID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		SafetyPassed  *bool  `json:"safety_passed"`
		FlavorProfile string `json:"flavor_profile"`
		TextureNotes  string `json:"texture_notes"`
		AromaNotes    string `json:"aroma_notes"`
		OverallScore  *uint8 `json:"overall_score"`
		DetailedNotes string `json:"detailed_notes"`
	}
	if err := c.Bind(&body); err != nil || body.SafetyPassed == nil || body.OverallScore == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "safety_passed and overall_score are required"})
	}
	if *body.OverallScore > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "overall_score must be between 0 and 100"})
	}

	ctx := c.Request().Context()
	tester, err := h.Testers.GetByUserID(ctx, caller)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a registered tester"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !tester.Certified || !tester.Active {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tester is not certified and active"})
	}

	tx, err := h.Tests.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := h.Tests.GetByIDTx(ctx, tx, testID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if t.Status == model.TestCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "test already completed"})
	}

	res := &model.TestResult{
		TestID:        testID,
		SafetyPassed:  *body.SafetyPassed,
		FlavorProfile: strings.TrimSpace(body.FlavorProfile),
		TextureNotes:  strings.TrimSpace(body.TextureNotes),
		AromaNotes:    strings.TrimSpace(body.AromaNotes),
		OverallScore:  *body.OverallScore,
		DetailedNotes: body.DetailedNotes,
		VerifiedBy:    caller,
	}
	if _, err := h.Results.CreateTx(ctx, tx, res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "test already has a result"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record result"})
	}
	if err := h.Tests.SetStatusTx(ctx, tx, testID, model.TestCompleted); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not complete test"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	stored, err := h.Results.GetByID(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, toTestResultResp(stored))
}

// GetTestResult handles GET /v1/quality-tests/:id/result.
func (h *QualityHandler) GetTestResult(c echo.Context) error {
	testID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Results.GetByTestID(c.Request().Context(), testID)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toTestResultResp(res))
}

// RegisterTester handles POST /v1/testers.  New profiles start
// uncertified; the registering user certifies them separately.
func (h *QualityHandler) RegisterTester(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		UserID          uint64 `json:"user_id"`
		Name            string `json:"name"`
		Organization    string `json:"organization"`
		YearsExperience uint8  `json:"years_experience"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	userID := body.UserID
	if userID == 0 {
		userID = caller
	}

	t := &model.CertifiedTester{
		UserID:          userID,
		Name:            name,
		Organization:    strings.TrimSpace(body.Organization),
		YearsExperience: body.YearsExperience,
		Certified:       false,
		Active:          true,
		RegisteredBy:    caller,
	}
	if _, err := h.Testers.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tester"})
	}
	return c.JSON(http.StatusCreated, toTesterResp(t))
}

// GetTester handles GET /v1/testers/:id.
func (h *QualityHandler) GetTester(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Testers.GetByID(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toTesterResp(t))
}

// testerAuthority loads the tester and verifies the caller registered it.
func (h *QualityHandler) testerAuthority(c echo.Context, id uint64) (*model.CertifiedTester, error) {
	caller, err := getUserID(c)
	if err != nil {
		return nil, ledger.ErrUnauthorized
	}
	t, err := h.Testers.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if t.RegisteredBy != caller {
		return nil, ledger.ErrUnauthorized
	}
	return t, nil
}

// CertifyTester handles PATCH /v1/testers/:id/certify.
func (h *QualityHandler) CertifyTester(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.testerAuthority(c, id); err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Certified *bool `json:"certified"`
	}
	if err := c.Bind(&body); err != nil || body.Certified == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "certified is required"})
	}
	if err := h.Testers.SetCertified(c.Request().Context(), id, *body.Certified); err != nil {
		return ledgerError(c, err)
	}
	t, err := h.Testers.GetByID(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toTesterResp(t))
}

// SetTesterStatus handles PATCH /v1/testers/:id/active.
func (h *QualityHandler) SetTesterStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.testerAuthority(c, id); err != nil {
		return ledgerError(c, err)
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil || body.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}
	if err := h.Testers.SetActive(c.Request().Context(), id, *body.Active); err != nil {
		return ledgerError(c, err)
	}
	t, err := h.Testers.GetByID(c.Request().Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, toTesterResp(t))
}
