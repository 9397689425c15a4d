package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// FixtureHandler serves /fixtures. Fixtures version the same way test
// cases do: updates snapshot the previous row first unless the caller
// disables it.
type FixtureHandler struct {
	Fixtures *repository.FixtureRepo
	Projects *repository.ProjectRepo
	Steps    *repository.StepRepo
}

func NewFixtureHandler(f *repository.FixtureRepo, p *repository.ProjectRepo, s *repository.StepRepo) *FixtureHandler {
	return &FixtureHandler{Fixtures: f, Projects: p, Steps: s}
}

type createFixtureReq struct {
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Script     *string `json:"playwright_script"`
	Filename   *string `json:"filename"`
	ExportName *string `json:"export_name"`
	FilePath   *string `json:"fixture_file_path"`
}

// Create handles POST /fixtures.
func (h *FixtureHandler) Create(c echo.Context) error {
	var req createFixtureReq
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

	typ := req.Type
	if typ == "" {
		typ = "extend"
	}

	f, err := h.Fixtures.Create(ctx, repository.CreateFixtureParams{
		ProjectID:  req.ProjectID,
		Name:       req.Name,
		Type:       typ,
		Status:     "draft",
		Script:     req.Script,
		Filename:   req.Filename,
		ExportName: req.ExportName,
		FilePath:   req.FilePath,
		CreatedBy:  actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create fixture failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// List handles GET /fixtures?project_id=&skip=&limit=.
func (h *FixtureHandler) List(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	fixtures, err := h.Fixtures.List(ctx, c.QueryParam("project_id"), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, fixtures)
}

// Get handles GET /fixtures/:id.
func (h *FixtureHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	f, err := h.Fixtures.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, f)
}

type updateFixtureReq struct {
	Name       *string `json:"name"`
	Type       *string `json:"type"`
	Status     *string `json:"status"`
	Script     *string `json:"playwright_script"`
	Filename   *string `json:"filename"`
	ExportName *string `json:"export_name"`
	FilePath   *string `json:"fixture_file_path"`
}

// Update handles PUT /fixtures/:id. A ?auto_version=false query skips the
// snapshot that otherwise precedes the write.
func (h *FixtureHandler) Update(c echo.Context) error {
	var req updateFixtureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cur, err := h.Fixtures.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	if c.QueryParam("auto_version") != "false" {
		if _, err := h.Fixtures.SnapshotVersion(ctx, cur, ""); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "version snapshot failed"})
		}
	}

	f, err := h.Fixtures.Update(ctx, cur.ID, repository.UpdateFixtureParams{
		Name:       req.Name,
		Type:       req.Type,
		Status:     req.Status,
		Script:     req.Script,
		Filename:   req.Filename,
		ExportName: req.ExportName,
		FilePath:   req.FilePath,
		UpdatedBy:  actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update fixture failed"})
	}
	return c.JSON(http.StatusOK, f)
}

type updateFixtureStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /fixtures/:id/status.
func (h *FixtureHandler) UpdateStatus(c echo.Context) error {
	var req updateFixtureStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "status is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Fixtures.UpdateStatus(ctx, c.Param("id"), req.Status, actor(c)); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update status failed"})
	}

	f, err := h.Fixtures.GetByID(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /fixtures/:id.
func (h *FixtureHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Fixtures.Delete(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Fixture deleted successfully"})
}

// ListVersions handles GET /fixtures/:id/versions, newest snapshot first.
func (h *FixtureHandler) ListVersions(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Fixtures.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	versions, err := h.Fixtures.ListVersions(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, versions)
}

// GetVersion handles GET /fixtures/:id/versions/:version.
func (h *FixtureHandler) GetVersion(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	v, err := h.Fixtures.GetVersion(ctx, c.Param("id"), c.Param("version"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": "Version " + c.Param("version") + " not found for fixture"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// RestoreVersion handles POST /fixtures/:id/versions/:version/restore.
// The current state is snapshotted before it is overwritten.
func (h *FixtureHandler) RestoreVersion(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	target, err := h.Fixtures.GetVersion(ctx, c.Param("id"), c.Param("version"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": "Version " + c.Param("version") + " not found for fixture"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	cur, err := h.Fixtures.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Fixture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	if _, err := h.Fixtures.SnapshotVersion(ctx, cur, ""); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "version snapshot failed"})
	}

	f, err := h.Fixtures.RestoreVersion(ctx, cur.ID, target, actor(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "restore failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// VersionSteps handles GET /fixtures/:id/versions/:version/steps. Snapshots
// do not store steps separately, so the current step list is returned for
// any existing version.
func (h *FixtureHandler) VersionSteps(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Fixtures.GetVersion(ctx, c.Param("id"), c.Param("version")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"detail": "Version " + c.Param("version") + " not found for fixture"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	steps, err := h.Steps.ListByFixture(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, steps)
}
