package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shop-api/internal/models"
	"shop-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// fieldError describes one failed validation rule
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindJSON binds the request body and, on failure, writes a structured 400
// listing the failed fields. Returns false when the request was rejected.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldError{
					Field:   fe.Field(),
					Message: fieldMessage(fe),
				})
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": fields,
			})
			return false
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// validationError writes a structured 400 for a rule the binding tags
// cannot express (decimal positivity)
func validationError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": []fieldError{{Field: field, Message: message}},
	})
}

// idParam parses an integer path parameter, rejecting the request with a 400
// when it is not a positive integer
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid %s", name),
		})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto the HTTP taxonomy. Anything outside
// the taxonomy is logged with the request's correlation id and answered with
// a generic 500; details are only exposed outside production.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		util.ConflictsTotal.Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		cid := c.GetString(correlationKey)
		util.GetLogger().Error("request failed",
			zap.String(correlationKey, cid),
			zap.String("path", c.FullPath()),
			zap.Error(err))

		body := gin.H{
			"error":        "error occurred while processing your request",
			correlationKey: cid,
		}
		if h.env != "production" {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
