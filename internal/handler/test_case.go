package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// TestCaseHandler serves /test-cases. Updates snapshot the previous row
// into test_case_versions before applying, so releases keep the exact
// script they pinned.
type TestCaseHandler struct {
	Cases    *repository.TestCaseRepo
	Projects *repository.ProjectRepo
}

func NewTestCaseHandler(tc *repository.TestCaseRepo, p *repository.ProjectRepo) *TestCaseHandler {
	return &TestCaseHandler{Cases: tc, Projects: p}
}

type createTestCaseReq struct {
	ProjectID    string   `json:"project_id"`
	Name         string   `json:"name"`
	Order        *int     `json:"order"`
	Status       string   `json:"status"`
	IsManual     *bool    `json:"is_manual"`
	Tags         []string `json:"tags"`
	TestFilePath *string  `json:"test_file_path"`
	Script       *string  `json:"playwright_script"`
}

// Create handles POST /test-cases.
func (h *TestCaseHandler) Create(c echo.Context) error {
	var req createTestCaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ProjectID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "project_id and name are required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Projects.GetByID(ctx, req.ProjectID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	status := req.Status
	if status == "" {
		status = "not-run"
	}
	manual := false
	if req.IsManual != nil {
		manual = *req.IsManual
	}

	tc, err := h.Cases.Create(ctx, repository.CreateTestCaseParams{
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		Order:        req.Order,
		Status:       status,
		IsManual:     manual,
		Tags:         req.Tags,
		TestFilePath: req.TestFilePath,
		Script:       req.Script,
		CreatedBy:    actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create test case failed"})
	}
	return c.JSON(http.StatusCreated, tc)
}

// List handles GET /test-cases?project_id=&status=&skip=&limit=.
func (h *TestCaseHandler) List(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	cases, err := h.Cases.List(ctx, repository.ListFilter{
		ProjectID: c.QueryParam("project_id"),
		Status:    c.QueryParam("status"),
	}, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, cases)
}

// Get handles GET /test-cases/:id.
func (h *TestCaseHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	tc, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, tc)
}

type updateTestCaseReq struct {
	Name         *string  `json:"name"`
	Order        *int     `json:"order"`
	Status       *string  `json:"status"`
	Version      *string  `json:"version"`
	IsManual     *bool    `json:"is_manual"`
	Tags         []string `json:"tags"`
	TestFilePath *string  `json:"test_file_path"`
	Script       *string  `json:"playwright_script"`
}

// Update handles PUT /test-cases/:id. The current row is snapshotted as a
// new version before the update lands; when the caller does not name a
// version the snapshot derives the next minor one.
func (h *TestCaseHandler) Update(c echo.Context) error {
	var req updateTestCaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	version := ""
	if req.Version != nil {
		version = *req.Version
	}
	snap, err := h.Cases.SnapshotVersion(ctx, cur, version)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "version snapshot failed"})
	}

	newVersion := snap.Version
	tc, err := h.Cases.Update(ctx, cur.ID, repository.UpdateTestCaseParams{
		Name:         req.Name,
		Order:        req.Order,
		Status:       req.Status,
		Version:      &newVersion,
		IsManual:     req.IsManual,
		Tags:         req.Tags,
		TestFilePath: req.TestFilePath,
		Script:       req.Script,
		UpdatedBy:    actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update test case failed"})
	}
	return c.JSON(http.StatusOK, tc)
}

type updateStatusReq struct {
	Status    string `json:"status"`
	LastRunBy string `json:"last_run_by"`
}

// UpdateStatus handles PATCH /test-cases/:id/status, stamping last_run.
func (h *TestCaseHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "status is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	by := actor(c)
	if req.LastRunBy != "" {
		by = &req.LastRunBy
	}
	if err := h.Cases.UpdateStatus(ctx, c.Param("id"), req.Status, by); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update status failed"})
	}

	tc, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, tc)
}

// ListVersions handles GET /test-cases/:id/versions, newest snapshot first.
func (h *TestCaseHandler) ListVersions(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Cases.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	versions, err := h.Cases.ListVersions(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, versions)
}

// GetVersion handles GET /test-cases/:id/versions/:version.
func (h *TestCaseHandler) GetVersion(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	v, err := h.Cases.GetVersion(ctx, c.Param("id"), c.Param("version"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": "Version " + c.Param("version") + " not found for test case"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// RestoreVersion handles POST /test-cases/:id/versions/:version/restore.
// The current state is snapshotted before it is overwritten, so a restore
// is itself undoable.
func (h *TestCaseHandler) RestoreVersion(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	target, err := h.Cases.GetVersion(ctx, c.Param("id"), c.Param("version"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": "Version " + c.Param("version") + " not found for test case"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	cur, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	if _, err := h.Cases.SnapshotVersion(ctx, cur, ""); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "version snapshot failed"})
	}

	tc, err := h.Cases.RestoreVersion(ctx, cur.ID, target, actor(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "restore failed"})
	}
	return c.JSON(http.StatusOK, tc)
}

// Delete handles DELETE /test-cases/:id.
func (h *TestCaseHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Cases.Delete(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Test case deleted successfully"})
}
