package movement

import (
	"sync"

	"gorm.io/gorm"

	movementEntity "stockmaster.GO/model/entity/movement"
)

type MovementRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *MovementRepository

// GetMovementRepository returns a shared repository instance for the given DB.
func GetMovementRepository(db *gorm.DB) *MovementRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*MovementRepository)
	}
	v, _ := instances.LoadOrStore(db, NewMovementRepository(db))
	return v.(*MovementRepository)
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Filter narrows ledger queries. Zero values mean "no filter".
type Filter struct {
	ProductID   uint
	WarehouseID uint
	Type        string
	Status      string
	Limit       int
}

func (r *MovementRepository) FindByID(id string) (*movementEntity.Movement, error) {
	var m movementEntity.Movement
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns ledger entries newest-first, applying the filter.
func (r *MovementRepository) List(f Filter) ([]movementEntity.Movement, error) {
	q := r.db.Model(&movementEntity.Movement{})
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.WarehouseID != 0 {
		q = q.Where("from_warehouse_id = ? OR to_warehouse_id = ?", f.WarehouseID, f.WarehouseID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var movements []movementEntity.Movement
	err := q.Order("created_at DESC, id").Find(&movements).Error
	return movements, err
}

// CountByProduct reports how many ledger entries reference a product.
func (r *MovementRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&movementEntity.Movement{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
