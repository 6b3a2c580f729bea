package api

import (
	"net/http"

	"shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listOrders handles GET /orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder handles GET /orders/:id
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// createOrder handles POST /orders
func (h *Handler) createOrder(c *gin.Context) {
	var req service.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// updateOrder handles PUT /orders/:id. The item set is fully replaced and
// re-priced from current product prices.
func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req service.OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.orders.UpdateOrder(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteOrder handles DELETE /orders/:id
func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
