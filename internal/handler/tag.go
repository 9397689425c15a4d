package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/repository"
)

// TagHandler serves /tags.
type TagHandler struct {
	Tags *repository.TagRepo
}

func NewTagHandler(t *repository.TagRepo) *TagHandler {
	return &TagHandler{Tags: t}
}

// List handles GET /tags, returning the global (project-less) tags.
func (h *TagHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	tags, err := h.Tags.ListGlobal(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, tags)
}
