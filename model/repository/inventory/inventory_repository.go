package inventory

import (
	"database/sql"
	"strconv"
	"sync"

	"gorm.io/gorm"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
)

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

var instances sync.Map // *gorm.DB -> *InventoryRepository

// GetInventoryRepository returns a shared repository instance for the given DB.
func GetInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	if v, ok := instances.Load(db); ok {
		return v.(*InventoryRepository), nil
	}
	repo, err := NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	v, _ := instances.LoadOrStore(db, repo)
	return v.(*InventoryRepository), nil
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

func (r *InventoryRepository) FindAll() ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := r.db.Order("entity_id").Find(&rows).Error
	return rows, err
}

func (r *InventoryRepository) FindByID(id uint) (*inventoryEntity.Inventory, error) {
	var row inventoryEntity.Inventory
	if err := r.db.First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByProduct returns all rows holding a product, across warehouses.
func (r *InventoryRepository) FindByProduct(productID uint) ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := r.db.Where("product_id = ?", productID).Order("entity_id").Find(&rows).Error
	return rows, err
}

// FindByPair returns all rows for a (product, warehouse) pair in stable order.
func (r *InventoryRepository) FindByPair(productID, warehouseID uint) ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := r.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Order("entity_id").Find(&rows).Error
	return rows, err
}

// FindByKey returns the row for the full natural key, if present.
func (r *InventoryRepository) FindByKey(productID, warehouseID uint, location string) (*inventoryEntity.Inventory, error) {
	var row inventoryEntity.Inventory
	err := r.db.Where("product_id = ? AND warehouse_id = ? AND location = ?",
		productID, warehouseID, location).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *InventoryRepository) Create(row *inventoryEntity.Inventory) error {
	return r.db.Create(row).Error
}

func (r *InventoryRepository) Update(row *inventoryEntity.Inventory) error {
	return r.db.Save(row).Error
}

func (r *InventoryRepository) Delete(id uint) error {
	return r.db.Delete(&inventoryEntity.Inventory{}, id).Error
}

// SumQuantityByProduct sums quantity across all rows for a product.
// Raw SQL keeps the reconciliation sweep cheap.
func (r *InventoryRepository) SumQuantityByProduct(productID uint) (int64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = ?`
	var total int64
	err := r.sqlDB.QueryRow(query, productID).Scan(&total)
	return total, err
}

// SumQuantityByPair sums quantity for one product within one warehouse.
func (r *InventoryRepository) SumQuantityByPair(productID, warehouseID uint) (int64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = ? AND warehouse_id = ?`
	var total int64
	err := r.sqlDB.QueryRow(query, productID, warehouseID).Scan(&total)
	return total, err
}

// SumQuantityByWarehouse sums quantity across all rows in a warehouse.
func (r *InventoryRepository) SumQuantityByWarehouse(warehouseID uint) (int64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE warehouse_id = ?`
	var total int64
	err := r.sqlDB.QueryRow(query, warehouseID).Scan(&total)
	return total, err
}

// BreakdownByWarehouse returns per-product quantity totals for a warehouse,
// keyed by product ID rendered as a string (the breakdown JSON key format).
func (r *InventoryRepository) BreakdownByWarehouse(warehouseID uint) (map[string]int64, error) {
	rows, err := r.db.Table("inventory").
		Select("product_id, SUM(quantity) AS total").
		Where("warehouse_id = ?", warehouseID).
		Group("product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var productID uint
		var total int64
		if err := rows.Scan(&productID, &total); err != nil {
			continue
		}
		if total != 0 {
			result[strconv.FormatUint(uint64(productID), 10)] = total
		}
	}
	return result, nil
}

// FindWithExpiry returns rows that carry a batch expiry date.
func (r *InventoryRepository) FindWithExpiry() ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := r.db.Where("expiry_date IS NOT NULL").Order("entity_id").Find(&rows).Error
	return rows, err
}

// FindZeroQuantity returns stocked-out rows.
func (r *InventoryRepository) FindZeroQuantity() ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := r.db.Where("quantity = 0").Order("entity_id").Find(&rows).Error
	return rows, err
}

// CountNonZeroByProduct reports how many inventory rows still hold stock for
// a product (product deletion is blocked while any exist).
func (r *InventoryRepository) CountNonZeroByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&inventoryEntity.Inventory{}).
		Where("product_id = ? AND quantity > 0", productID).Count(&count).Error
	return count, err
}
