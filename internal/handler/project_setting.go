package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// Settings nested under /projects/:id/settings. Every route verifies the
// parent project first, mirroring the not-found contract of the project
// endpoints.

type createSettingReq struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListSettings handles GET /projects/:id/settings.
func (h *ProjectHandler) ListSettings(c echo.Context) error {
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	settings, err := h.Settings.ListByProject(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, settings)
}

// SettingsDict handles GET /projects/:id/settings/dict.
func (h *ProjectHandler) SettingsDict(c echo.Context) error {
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	dict, err := h.Settings.Dict(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, dict)
}

// CreateSetting handles POST /projects/:id/settings.
func (h *ProjectHandler) CreateSetting(c echo.Context) error {
	var req createSettingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "key is required"})
	}
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Settings.Create(ctx, c.Param("id"), req.Key, req.Value, actor(c))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest,
				echo.Map{"detail": fmt.Sprintf("Setting '%s' already exists for this project", req.Key)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create setting failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// GetSetting handles GET /projects/:id/settings/:key.
func (h *ProjectHandler) GetSetting(c echo.Context) error {
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	key := c.Param("key")
	s, err := h.Settings.GetByKey(ctx, c.Param("id"), key)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound,
				echo.Map{"detail": fmt.Sprintf("Setting '%s' not found for this project", key)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

type upsertSettingReq struct {
	Value string `json:"value"`
}

// UpsertSetting handles PUT /projects/:id/settings/:key.
func (h *ProjectHandler) UpsertSetting(c echo.Context) error {
	var req upsertSettingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Settings.Upsert(ctx, c.Param("id"), c.Param("key"), req.Value, actor(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "upsert setting failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSetting handles DELETE /projects/:id/settings/:key.
func (h *ProjectHandler) DeleteSetting(c echo.Context) error {
	if _, done, err := h.getProject(c); done {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	key := c.Param("key")
	if err := h.Settings.DeleteByKey(ctx, c.Param("id"), key); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound,
				echo.Map{"detail": fmt.Sprintf("Setting '%s' not found for this project", key)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Setting '%s' deleted successfully", key)})
}
