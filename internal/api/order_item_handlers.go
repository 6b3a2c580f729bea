package api

import (
	"net/http"

	"shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// listOrderItems handles GET /orders/:id/items
func (h *Handler) listOrderItems(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	items, err := h.orders.ListOrderItems(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// getOrderItem handles GET /orders/:id/items/:itemId
func (h *Handler) getOrderItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}

	item, err := h.orders.GetOrderItem(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// createOrderItem handles POST /orders/:id/items
func (h *Handler) createOrderItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req service.OrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.orders.AddOrderItem(c.Request.Context(), orderID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// updateOrderItem handles PUT /orders/:id/items/:itemId
func (h *Handler) updateOrderItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}

	var req service.OrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.orders.UpdateOrderItem(c.Request.Context(), orderID, itemID, &req); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteOrderItem handles DELETE /orders/:id/items/:itemId
func (h *Handler) deleteOrderItem(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrderItem(c.Request.Context(), orderID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
