package alert

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	alertEntity "stockmaster.GO/model/entity/alert"
)

type AlertRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *AlertRepository

// GetAlertRepository returns a shared repository instance for the given DB.
func GetAlertRepository(db *gorm.DB) *AlertRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*AlertRepository)
	}
	v, _ := instances.LoadOrStore(db, NewAlertRepository(db))
	return v.(*AlertRepository)
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) FindByID(id uint) (*alertEntity.Alert, error) {
	var a alertEntity.Alert
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAll returns alerts newest-first, optionally filtered by status.
func (r *AlertRepository) FindAll(status string) ([]alertEntity.Alert, error) {
	q := r.db.Model(&alertEntity.Alert{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var alerts []alertEntity.Alert
	err := q.Order("created_at DESC, entity_id DESC").Find(&alerts).Error
	return alerts, err
}

// HasOpenForProduct reports whether an active-or-acknowledged alert of the
// given type exists for the product. This is the dedup key for low-stock,
// expiry and stockout-discrepancy alerts.
func (r *AlertRepository) HasOpenForProduct(alertType string, productID uint) (bool, error) {
	var a alertEntity.Alert
	err := r.db.Where("type = ? AND product_id = ? AND status IN ?",
		alertType, productID, []string{alertEntity.StatusActive, alertEntity.StatusAcknowledged}).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HasOpenForWarehouse is the dedup key for over-capacity discrepancy alerts.
func (r *AlertRepository) HasOpenForWarehouse(alertType string, warehouseID uint) (bool, error) {
	var a alertEntity.Alert
	err := r.db.Where("type = ? AND warehouse_id = ? AND product_id IS NULL AND status IN ?",
		alertType, warehouseID, []string{alertEntity.StatusActive, alertEntity.StatusAcknowledged}).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *AlertRepository) Create(a *alertEntity.Alert) error {
	return r.db.Create(a).Error
}

func (r *AlertRepository) Update(a *alertEntity.Alert) error {
	return r.db.Save(a).Error
}
