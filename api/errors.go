package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	stockService "stockmaster.GO/service/stock"
)

// ErrorJSON maps engine errors onto HTTP responses. Insufficient stock gets a
// structured body naming the offending product and quantities.
func ErrorJSON(c echo.Context, err error) error {
	var insufficient *stockService.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        "insufficient stock",
			"code":         "insufficient_stock",
			"product_id":   insufficient.ProductID,
			"warehouse_id": insufficient.WarehouseID,
			"requested":    insufficient.Requested,
			"available":    insufficient.Available,
		})
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "code": "validation"})
	}

	switch {
	case errors.Is(err, stockService.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "code": "validation"})
	case errors.Is(err, stockService.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, stockService.ErrAlreadyValidated):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "already_validated"})
	case errors.Is(err, stockService.ErrCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "cancelled"})
	case errors.Is(err, stockService.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "invalid_transition"})
	case errors.Is(err, stockService.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "insufficient_stock"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// Identity returns the initiated-by stamp for a mutating request: the explicit
// value when given, else the authenticated user from the auth middleware.
func Identity(c echo.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if u, ok := c.Get("auth_user").(string); ok {
		return u
	}
	return ""
}
