package warehouse

import (
	"sync"

	"gorm.io/gorm"

	warehouseEntity "stockmaster.GO/model/entity/warehouse"
)

type WarehouseRepository struct {
	db *gorm.DB
}

var instances sync.Map // *gorm.DB -> *WarehouseRepository

// GetWarehouseRepository returns a shared repository instance for the given DB.
func GetWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*WarehouseRepository)
	}
	v, _ := instances.LoadOrStore(db, NewWarehouseRepository(db))
	return v.(*WarehouseRepository)
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) FindAll() ([]warehouseEntity.Warehouse, error) {
	var warehouses []warehouseEntity.Warehouse
	err := r.db.Order("entity_id").Find(&warehouses).Error
	return warehouses, err
}

func (r *WarehouseRepository) FindByID(id uint) (*warehouseEntity.Warehouse, error) {
	var w warehouseEntity.Warehouse
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepository) Create(w *warehouseEntity.Warehouse) error {
	return r.db.Create(w).Error
}

func (r *WarehouseRepository) Update(w *warehouseEntity.Warehouse) error {
	return r.db.Save(w).Error
}

func (r *WarehouseRepository) Delete(id uint) error {
	return r.db.Delete(&warehouseEntity.Warehouse{}, id).Error
}

// FindOverCapacity returns warehouses whose tracked occupancy exceeds their
// declared capacity. Warehouses without a capacity are skipped.
func (r *WarehouseRepository) FindOverCapacity() ([]warehouseEntity.Warehouse, error) {
	var warehouses []warehouseEntity.Warehouse
	err := r.db.Where("capacity > 0 AND current_occupancy > capacity").Find(&warehouses).Error
	return warehouses, err
}
