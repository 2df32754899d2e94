package alert

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	alertEntity "stockmaster.GO/model/entity/alert"
	alertRepo "stockmaster.GO/model/repository/alert"
	stockService "stockmaster.GO/service/stock"
)

// CreateInput is a manually raised alert.
type CreateInput struct {
	Type        string `json:"type" validate:"required,oneof=low-stock expiry discrepancy"`
	ProductID   *uint  `json:"product_id"`
	WarehouseID *uint  `json:"warehouse_id"`
	Threshold   int64  `json:"threshold"`
	Notes       string `json:"notes"`
}

// Create records a manual alert. At least one of product or warehouse must be
// referenced.
func Create(db *gorm.DB, in CreateInput) (*alertEntity.Alert, error) {
	if in.ProductID == nil && in.WarehouseID == nil {
		return nil, fmt.Errorf("%w: alert needs a product or warehouse reference", stockService.ErrValidation)
	}
	a := alertEntity.Alert{
		Type:        in.Type,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Threshold:   in.Threshold,
		Notes:       in.Notes,
		Status:      alertEntity.StatusActive,
	}
	if err := alertRepo.GetAlertRepository(db).Create(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Acknowledge marks an alert as seen. Re-acknowledging only refreshes the
// timestamp.
func Acknowledge(db *gorm.DB, id uint) (*alertEntity.Alert, error) {
	return setStatus(db, id, alertEntity.StatusAcknowledged)
}

// Resolve closes an alert so the evaluator may raise a fresh one for the same
// key. Idempotent.
func Resolve(db *gorm.DB, id uint) (*alertEntity.Alert, error) {
	return setStatus(db, id, alertEntity.StatusResolved)
}

func setStatus(db *gorm.DB, id uint, status string) (*alertEntity.Alert, error) {
	repo := alertRepo.GetAlertRepository(db)
	a, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("alert %d: %w", id, stockService.ErrNotFound)
		}
		return nil, err
	}
	now := time.Now()
	switch status {
	case alertEntity.StatusAcknowledged:
		a.AcknowledgedAt = &now
	case alertEntity.StatusResolved:
		a.ResolvedAt = &now
	}
	a.Status = status
	if err := repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}
