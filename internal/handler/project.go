package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/repository"
)

// ProjectHandler serves /projects and its nested settings and releases
// routes; the nested handlers live in project_setting.go and release.go.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
	Settings *repository.SettingRepo
	Releases *repository.ReleaseRepo
	Results  *repository.ResultRepo
}

func NewProjectHandler(p *repository.ProjectRepo, s *repository.SettingRepo,
	rel *repository.ReleaseRepo, res *repository.ResultRepo) *ProjectHandler {
	return &ProjectHandler{Projects: p, Settings: s, Releases: rel, Results: res}
}

// getProject loads the project named in the :id path param, answering 404
// for the caller when it does not exist. The bool reports whether the
// response was already written.
func (h *ProjectHandler) getProject(c echo.Context) (model.Project, bool, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Project{}, true, c.JSON(http.StatusNotFound, echo.Map{"detail": "Project not found"})
		}
		return model.Project{}, true, c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return p, false, nil
}

type createProjectReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Environment string  `json:"environment"`
	ProjectPath *string `json:"playwright_project_path"`
	CreatedBy   string  `json:"created_by"`
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "name is required"})
	}
	if req.Environment == "" {
		req.Environment = "development"
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		if a := actor(c); a != nil {
			createdBy = *a
		} else {
			createdBy = "system"
		}
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Projects.Create(ctx, repository.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Environment: req.Environment,
		ProjectPath: req.ProjectPath,
		CreatedBy:   createdBy,
	})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"detail": "project name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create project failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /projects.
func (h *ProjectHandler) List(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 500)

	ctx, cancel := dbCtx(c)
	defer cancel()

	projects, err := h.Projects.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, projects)
}

// ListWithStats handles GET /projects/with-stats: every project joined with
// its test case count and run aggregates in one response.
func (h *ProjectHandler) ListWithStats(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 500)

	ctx, cancel := dbCtx(c)
	defer cancel()

	projects, err := h.Projects.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	out := make([]model.ProjectWithStats, 0, len(projects))
	for _, p := range projects {
		count, err := h.Projects.CountTestCases(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "stats query failed"})
		}
		rs, err := h.Results.ProjectStats(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "stats query failed"})
		}
		out = append(out, model.ProjectWithStats{
			Project: p,
			ProjectStats: model.ProjectStats{
				TestCasesCount:   count,
				SuccessRate:      rs.SuccessRate,
				TotalRuns:        rs.TotalRuns,
				AvgExecutionTime: rs.AvgExecutionTime,
			},
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /projects/:id, attaching the test case count.
func (h *ProjectHandler) Get(c echo.Context) error {
	p, done, err := h.getProject(c)
	if done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	count, err := h.Projects.CountTestCases(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "stats query failed"})
	}
	rs, err := h.Results.ProjectStats(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "stats query failed"})
	}
	return c.JSON(http.StatusOK, model.ProjectWithStats{
		Project: p,
		ProjectStats: model.ProjectStats{
			TestCasesCount:   count,
			SuccessRate:      rs.SuccessRate,
			TotalRuns:        rs.TotalRuns,
			AvgExecutionTime: rs.AvgExecutionTime,
		},
	})
}

type updateProjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Environment *string `json:"environment"`
	ProjectPath *string `json:"playwright_project_path"`
}

// Update handles PUT /projects/:id.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Projects.Update(ctx, c.Param("id"), repository.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Environment: req.Environment,
		ProjectPath: req.ProjectPath,
		UpdatedBy:   actor(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /projects/:id.
func (h *ProjectHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Projects.Delete(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Project deleted successfully"})
}
