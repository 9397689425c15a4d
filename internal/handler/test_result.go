package handler

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/queue"
	"github.com/qaops/test-manager/internal/repository"
	queuepub "github.com/qaops/test-manager/internal/service"
)

// TestResultHandler serves /test-results. Results and executions are
// written by the external runner; this API reads them, and the run
// endpoints only enqueue work for the runner to pick up.
type TestResultHandler struct {
	Results  *repository.ResultRepo
	Projects *repository.ProjectRepo
	Cases    *repository.TestCaseRepo
}

func NewTestResultHandler(r *repository.ResultRepo, p *repository.ProjectRepo,
	tc *repository.TestCaseRepo) *TestResultHandler {
	return &TestResultHandler{Results: r, Projects: p, Cases: tc}
}

// List handles GET /test-results?skip=&limit=.
func (h *TestResultHandler) List(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	results, err := h.Results.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, results)
}

// RecentRuns handles GET /test-results/analytics/recent-runs: totals over
// the last 50 runs plus the ten most recent rows.
func (h *TestResultHandler) RecentRuns(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	results, err := h.Results.List(ctx, 0, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	recent := results
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_runs":      len(results),
		"successful_runs": successful,
		"failed_runs":     len(results) - successful,
		"recent_results":  recent,
	})
}

// Get handles GET /test-results/:id.
func (h *TestResultHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	res, err := h.Results.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test result not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// ListExecutions handles GET /test-results/:id/executions.
func (h *TestResultHandler) ListExecutions(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Results.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test result not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	execs, err := h.Results.ListExecutionsByResult(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, execs)
}

// GetExecution handles GET /test-results/executions/:id.
func (h *TestResultHandler) GetExecution(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	exec, err := h.Results.GetExecution(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Execution not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, exec)
}

// getResultProject answers 404 when the :id project does not exist.
func (h *TestResultHandler) getResultProject(c echo.Context) (string, bool, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return "", true, c.JSON(http.StatusNotFound, echo.Map{"detail": "Project not found"})
		}
		return "", true, c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return p.Name, false, nil
}

// ListByProject handles GET /test-results/projects/:id/results.
func (h *TestResultHandler) ListByProject(c echo.Context) error {
	if _, done, err := h.getResultProject(c); done {
		return err
	}
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	results, err := h.Results.ListByProject(ctx, c.Param("id"), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, results)
}

// LatestByProject handles GET /test-results/projects/:id/results/latest.
func (h *TestResultHandler) LatestByProject(c echo.Context) error {
	if _, done, err := h.getResultProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	res, err := h.Results.Latest(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound,
				echo.Map{"detail": "No test results found for this project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// ProjectStats handles GET /test-results/projects/:id/stats.
func (h *TestResultHandler) ProjectStats(c echo.Context) error {
	if _, done, err := h.getResultProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	stats, err := h.Results.ProjectStats(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// ListByTestCase handles GET /test-results/test-cases/:id/executions?limit=.
func (h *TestResultHandler) ListByTestCase(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Cases.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	limit := atoiDefault(c.QueryParam("limit"), 10)
	execs, err := h.Results.ListExecutionsByTestCase(ctx, c.Param("id"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, execs)
}

// TestCaseStats handles GET /test-results/test-cases/:id/stats.
func (h *TestResultHandler) TestCaseStats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Cases.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	stats, err := h.Results.TestCaseStats(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

type runReq struct {
	Environment string `json:"environment"`
}

// RunProject handles POST /test-results/projects/:id/run. The run is
// enqueued for the external runner; the project's last_run columns are
// stamped immediately so the UI reflects the trigger.
func (h *TestResultHandler) RunProject(c echo.Context) error {
	var req runReq
	_ = c.Bind(&req) // body is optional

	name, done, err := h.getResultProject(c)
	if done {
		return err
	}

	by := "system"
	if a := actor(c); a != nil {
		by = *a
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	now := time.Now().UTC()
	if err := h.Projects.StampLastRun(ctx, c.Param("id"), by, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "run trigger failed"})
	}

	if err := queuepub.PublishTestRunQueued(ctx, queue.TestRunQueuedEvent{
		ProjectID:   c.Param("id"),
		ProjectName: name,
		TestName:    "all",
		Environment: req.Environment,
		RequestedBy: by,
		QueuedAt:    now,
	}); err != nil {
		log.Printf("run: enqueue failed for project %s: %v", c.Param("id"), err)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message":    "Test run queued",
		"project_id": c.Param("id"),
		"queued_at":  now,
	})
}

// RunTestCase handles POST /test-results/test-cases/:id/run.
func (h *TestResultHandler) RunTestCase(c echo.Context) error {
	var req runReq
	_ = c.Bind(&req)

	ctx, cancel := dbCtx(c)
	defer cancel()

	tc, err := h.Cases.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Test case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	project, err := h.Projects.GetByID(ctx, tc.ProjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	by := "system"
	if a := actor(c); a != nil {
		by = *a
	}

	now := time.Now().UTC()
	if err := h.Cases.UpdateStatus(ctx, tc.ID, "pending", &by); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "run trigger failed"})
	}

	if err := queuepub.PublishTestRunQueued(ctx, queue.TestRunQueuedEvent{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		TestCaseID:  tc.ID,
		TestName:    tc.Name,
		Environment: req.Environment,
		RequestedBy: by,
		QueuedAt:    now,
	}); err != nil {
		log.Printf("run: enqueue failed for test case %s: %v", tc.ID, err)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message":      "Test run queued",
		"test_case_id": tc.ID,
		"queued_at":    now,
	})
}
