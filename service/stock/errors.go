package stock

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. Callers match with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyValidated  = errors.New("document already validated")
	ErrCancelled         = errors.New("document cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the offending product and quantities, per the
// requirement that insufficiency reports identify what could not be served.
type InsufficientStockError struct {
	ProductID   uint
	WarehouseID uint
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in warehouse %d: requested %d, available %d",
		e.ProductID, e.WarehouseID, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
