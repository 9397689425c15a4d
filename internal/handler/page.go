package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// PageHandler serves /pages and the nested /pages/:id/locators routes.
type PageHandler struct {
	Pages    *repository.PageRepo
	Projects *repository.ProjectRepo
}

func NewPageHandler(pg *repository.PageRepo, pr *repository.ProjectRepo) *PageHandler {
	return &PageHandler{Pages: pg, Projects: pr}
}

type createPageReq struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// Create handles POST /pages.
func (h *PageHandler) Create(c echo.Context) error {
	var req createPageReq
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

	p, err := h.Pages.Create(ctx, req.ProjectID, req.Name, actor(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create page failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /pages?project_id=&skip=&limit=.
func (h *PageHandler) List(c echo.Context) error {
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	pages, err := h.Pages.List(ctx, c.QueryParam("project_id"), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, pages)
}

// Get handles GET /pages/:id.
func (h *PageHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Pages.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Page not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

type updatePageReq struct {
	Name *string `json:"name"`
}

// Update handles PUT /pages/:id.
func (h *PageHandler) Update(c echo.Context) error {
	var req updatePageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Pages.Update(ctx, c.Param("id"), req.Name, actor(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Page not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update page failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /pages/:id. Locators go with the page.
func (h *PageHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Pages.Delete(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Page not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Page deleted successfully"})
}

// getPage answers 404 for the caller when the :id page does not exist.
func (h *PageHandler) getPage(c echo.Context) (bool, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Pages.GetByID(ctx, c.Param("id")); err != nil {
		if err == sql.ErrNoRows {
			return true, c.JSON(http.StatusNotFound, echo.Map{"detail": "Page not found"})
		}
		return true, c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return false, nil
}

type locatorReq struct {
	Key   string `json:"locator_key"`
	Value string `json:"locator_value"`
}

// CreateLocator handles POST /pages/:id/locators.
func (h *PageHandler) CreateLocator(c echo.Context) error {
	var req locatorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Key = strings.TrimSpace(req.Key)
	req.Value = strings.TrimSpace(req.Value)
	if req.Key == "" || req.Value == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "locator_key and locator_value are required"})
	}
	if done, err := h.getPage(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	loc, err := h.Pages.CreateLocator(ctx, c.Param("id"), req.Key, req.Value, actor(c))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": "Locator key already exists for this page"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create locator failed"})
	}
	return c.JSON(http.StatusCreated, loc)
}

// ListLocators handles GET /pages/:id/locators?skip=&limit=.
func (h *PageHandler) ListLocators(c echo.Context) error {
	if done, err := h.getPage(c); done {
		return err
	}
	skip, limit := skipLimit(c, 100, 1000)

	ctx, cancel := dbCtx(c)
	defer cancel()

	locs, err := h.Pages.ListLocators(ctx, c.Param("id"), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, locs)
}

type updateLocatorReq struct {
	Key   *string `json:"locator_key"`
	Value *string `json:"locator_value"`
}

// UpdateLocator handles PUT /pages/:id/locators/:locatorId.
func (h *PageHandler) UpdateLocator(c echo.Context) error {
	var req updateLocatorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if done, err := h.getPage(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	loc, err := h.Pages.UpdateLocator(ctx, c.Param("id"), c.Param("locatorId"), req.Key, req.Value, actor(c))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Locator not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": "Locator key already exists for this page"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update locator failed"})
	}
	return c.JSON(http.StatusOK, loc)
}

// DeleteLocator handles DELETE /pages/:id/locators/:locatorId.
func (h *PageHandler) DeleteLocator(c echo.Context) error {
	if done, err := h.getPage(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Pages.DeleteLocator(ctx, c.Param("id"), c.Param("locatorId")); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Locator not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Locator deleted successfully"})
}
