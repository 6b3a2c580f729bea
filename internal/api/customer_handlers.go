package api

import (
	"net/http"

	"shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listCustomers handles GET /customers
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.ListCustomers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// getCustomer handles GET /customers/:id
func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// createCustomer handles POST /customers
func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customers.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// updateCustomer handles PUT /customers/:id
func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.customers.UpdateCustomer(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteCustomer handles DELETE /customers/:id
func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.customers.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
