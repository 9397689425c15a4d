package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// StepHandler serves /steps plus the nested step routes of test cases and
// fixtures. A step always belongs to exactly one parent; the nested create
// routes force the parent from the URL.
type StepHandler struct {
	Steps    *repository.StepRepo
	Cases    *repository.TestCaseRepo
	Fixtures *repository.FixtureRepo
}

func NewStepHandler(s *repository.StepRepo, tc *repository.TestCaseRepo, f *repository.FixtureRepo) *StepHandler {
	return &StepHandler{Steps: s, Cases: tc, Fixtures: f}
}

type stepReq struct {
	TestCaseID            *string `json:"test_case_id"`
	FixtureID             *string `json:"fixture_id"`
	Action                string  `json:"action"`
	Data                  *string `json:"data"`
	Expected              *string `json:"expected"`
	Script                *string `json:"playwright_script"`
	Order                 *int    `json:"order"`
	Disabled              *bool   `json:"disabled"`
	ReferencedFixtureID   *string `json:"referenced_fixture_id"`
	ReferencedFixtureType *string `json:"referenced_fixture_type"`
}

func (h *StepHandler) create(c echo.Context, req stepReq) error {
	req.Action = strings.TrimSpace(req.Action)
	if req.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "action is required"})
	}
	hasCase := req.TestCaseID != nil && *req.TestCaseID != ""
	hasFixture := req.FixtureID != nil && *req.FixtureID != ""
	if hasCase == hasFixture {
		return c.JSON(http.StatusBadRequest,
			echo.Map{"detail": "exactly one of test_case_id and fixture_id is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	parent := repository.StepParentTestCase
	parentID := ""
	if hasCase {
		parentID = *req.TestCaseID
		if _, err := h.Cases.GetByID(ctx, parentID); err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
		}
	} else {
		parent = repository.StepParentFixture
		parentID = *req.FixtureID
		if _, err := h.Fixtures.GetByID(ctx, parentID); err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
		}
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		max, err := h.Steps.MaxOrder(ctx, parent, parentID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
		}
		order = max + 1
	}
	disabled := false
	if req.Disabled != nil {
		disabled = *req.Disabled
	}

	s, err := h.Steps.Create(ctx, repository.CreateStepParams{
		TestCaseID:            req.TestCaseID,
		FixtureID:             req.FixtureID,
		Action:                req.Action,
		Data:                  req.Data,
		Expected:              req.Expected,
		Script:                req.Script,
		Order:                 order,
		Disabled:              disabled,
		ReferencedFixtureID:   req.ReferencedFixtureID,
		ReferencedFixtureType: req.ReferencedFixtureType,
		CreatedBy:             actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create step failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// Create handles POST /steps with the parent named in the body.
func (h *StepHandler) Create(c echo.Context) error {
	var req stepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	return h.create(c, req)
}

// CreateForTestCase handles POST /test-cases/:id/steps. The parent in the
// URL wins over anything in the body.
func (h *StepHandler) CreateForTestCase(c echo.Context) error {
	var req stepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	id := c.Param("id")
	req.TestCaseID = &id
	req.FixtureID = nil
	return h.create(c, req)
}

// CreateForFixture handles POST /fixtures/:id/steps.
func (h *StepHandler) CreateForFixture(c echo.Context) error {
	var req stepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	id := c.Param("id")
	req.FixtureID = &id
	req.TestCaseID = nil
	return h.create(c, req)
}

// Get handles GET /steps/:id.
func (h *StepHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Steps.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Step not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update handles PUT /steps/:id.
func (h *StepHandler) Update(c echo.Context) error {
	var req stepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Steps.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Step not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	var action *string
	if a := strings.TrimSpace(req.Action); a != "" {
		action = &a
	}
	s, err := h.Steps.Update(ctx, c.Param("id"), repository.UpdateStepParams{
		Action:                action,
		Data:                  req.Data,
		Expected:              req.Expected,
		Script:                req.Script,
		Order:                 req.Order,
		Disabled:              req.Disabled,
		ReferencedFixtureID:   req.ReferencedFixtureID,
		ReferencedFixtureType: req.ReferencedFixtureType,
		UpdatedBy:             actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update step failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /steps/:id.
func (h *StepHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Steps.Delete(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Step not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Step deleted successfully"})
}

// ListForTestCase handles GET /test-cases/:id/steps in execution order.
func (h *StepHandler) ListForTestCase(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Cases.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	steps, err := h.Steps.ListByTestCase(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, steps)
}

// ListForFixture handles GET /fixtures/:id/steps in execution order.
func (h *StepHandler) ListForFixture(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Fixtures.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	steps, err := h.Steps.ListByFixture(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, steps)
}

func (h *StepHandler) reorder(c echo.Context, parent repository.StepParent) error {
	var orders []repository.StepOrder
	if err := c.Bind(&orders); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if len(orders) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "step_orders must not be empty"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Steps.Reorder(ctx, parent, c.Param("id"), orders); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "reorder failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Steps reordered successfully"})
}

// ReorderForTestCase handles PATCH /test-cases/:id/steps/reorder. Entries
// naming steps outside the test case are skipped.
func (h *StepHandler) ReorderForTestCase(c echo.Context) error {
	return h.reorder(c, repository.StepParentTestCase)
}

// ReorderForFixture handles PATCH /fixtures/:id/steps/reorder.
func (h *StepHandler) ReorderForFixture(c echo.Context) error {
	return h.reorder(c, repository.StepParentFixture)
}
