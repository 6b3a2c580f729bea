package api

import (
	"net/http"

	"shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listCategories handles GET /categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// getCategory handles GET /categories/:id
func (h *Handler) getCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// createCategory handles POST /categories
func (h *Handler) createCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// updateCategory handles PUT /categories/:id
func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.categories.UpdateCategory(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteCategory handles DELETE /categories/:id
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
