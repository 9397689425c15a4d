package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/repository"
)

// Releases nested under /projects/:id/releases. Release rows carry their
// own UUIDs, so the non-nested routes would work too; keeping them under
// the project keeps the not-found contract uniform.

type createReleaseReq struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
}

// CreateRelease handles POST /projects/:id/releases.
func (h *ProjectHandler) CreateRelease(c echo.Context) error {
	var req createReleaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Version = strings.TrimSpace(req.Version)
	if req.Name == "" || req.Version == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "name and version are required"})
	}
	if _, done, err := h.getProject(c); done {
		return err
	}

	start := time.Now().UTC()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	status := req.Status
	if status == "" {
		status = "planning"
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rel, err := h.Releases.Create(ctx, repository.CreateReleaseParams{
		ProjectID:   c.Param("id"),
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		StartDate:   start,
		EndDate:     req.EndDate,
		Status:      status,
		CreatedBy:   actor(c),
	})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": "Release version already exists for this project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create release failed"})
	}
	return c.JSON(http.StatusCreated, rel)
}

// ListReleases handles GET /projects/:id/releases. Each release carries its
// aggregated stats so the listing can render progress without extra calls.
func (h *ProjectHandler) ListReleases(c echo.Context) error {
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	releases, err := h.Releases.ListByProject(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	summaries := make([]model.ReleaseSummary, 0, len(releases))
	for _, rel := range releases {
		stats, err := h.Releases.Stats(ctx, rel.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
		}
		summaries = append(summaries, model.ReleaseSummary{Release: rel, Stats: stats})
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetRelease handles GET /projects/:id/releases/:releaseId.
func (h *ProjectHandler) GetRelease(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rel, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if rel.ProjectID != c.Param("id") {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
	}
	return c.JSON(http.StatusOK, rel)
}

type updateReleaseReq struct {
	Name        *string    `json:"name"`
	Version     *string    `json:"version"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      *string    `json:"status"`
}

// UpdateRelease handles PUT /projects/:id/releases/:releaseId.
func (h *ProjectHandler) UpdateRelease(c echo.Context) error {
	var req updateReleaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	rel, err := h.Releases.Update(ctx, cur.ID, repository.UpdateReleaseParams{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		UpdatedBy:   actor(c),
	})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": "Release version already exists for this project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update release failed"})
	}
	return c.JSON(http.StatusOK, rel)
}

// DeleteRelease handles DELETE /projects/:id/releases/:releaseId.
func (h *ProjectHandler) DeleteRelease(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if err := h.Releases.Delete(ctx, cur.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Release deleted successfully"})
}

type addReleaseTestCaseReq struct {
	TestCaseID string `json:"test_case_id"`
	Version    string `json:"version"`
}

// AddReleaseTestCase handles POST /projects/:id/releases/:releaseId/test-cases.
func (h *ProjectHandler) AddReleaseTestCase(c echo.Context) error {
	var req addReleaseTestCaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if req.TestCaseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "test_case_id is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	pin, err := h.Releases.AddTestCase(ctx, cur.ID, req.TestCaseID, req.Version, actor(c))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": "Test case already added to this release"})
		}
		if strings.Contains(err.Error(), "foreign key") {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "add test case failed"})
	}
	return c.JSON(http.StatusCreated, pin)
}

type bulkAddReleaseTestCasesReq struct {
	TestCaseIDs []string `json:"test_case_ids"`
	Version     string   `json:"version"`
}

// BulkAddReleaseTestCases handles POST /projects/:id/releases/:releaseId/test-cases/bulk.
// Test cases already pinned are skipped rather than rejected.
func (h *ProjectHandler) BulkAddReleaseTestCases(c echo.Context) error {
	var req bulkAddReleaseTestCasesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if len(req.TestCaseIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "test_case_ids must not be empty"})
	}
	if req.Version == "" {
		req.Version = "1.0.0"
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	added, err := h.Releases.BulkAddTestCases(ctx, cur.ID, req.TestCaseIDs, req.Version, actor(c))
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "bulk add failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     fmt.Sprintf("Added %d test cases to release", added),
		"added_count": added,
	})
}

// ListReleaseTestCases handles GET /projects/:id/releases/:releaseId/test-cases.
func (h *ProjectHandler) ListReleaseTestCases(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	cases, err := h.Releases.ListTestCases(ctx, cur.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, cases)
}

// RemoveReleaseTestCase handles DELETE /projects/:id/releases/:releaseId/test-cases/:testCaseId.
func (h *ProjectHandler) RemoveReleaseTestCase(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	if err := h.Releases.RemoveTestCase(ctx, cur.ID, c.Param("testCaseId")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound,
				echo.Map{"detail": "Test case not found in this release"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "remove test case failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Test case removed from release successfully"})
}

// ReleaseStats handles GET /projects/:id/releases/:releaseId/stats.
func (h *ProjectHandler) ReleaseStats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Releases.GetByID(ctx, c.Param("releaseId"))
	if err != nil || cur.ProjectID != c.Param("id") {
		if err == nil || err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	stats, err := h.Releases.Stats(ctx, cur.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
