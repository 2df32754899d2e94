package product

import "time"

// Product represents the product table. Stock is a denormalized total across
// all inventory records for this product; it is mutated only by the stock
// engine and recomputed by the reconciliation sync.
type Product struct {
	EntityID          uint      `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	Name              string    `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	WarehouseID       uint      `gorm:"column:warehouse_id;index;not null" json:"warehouse_id"`
	Stock             int64     `gorm:"column:stock;not null;default:0" json:"stock"`
	MinStockLevel     int64     `gorm:"column:min_stock_level;not null;default:0" json:"min_stock_level"`
	IsPerishable      bool      `gorm:"column:is_perishable;not null;default:false" json:"is_perishable"`
	DefaultExpiryDays int       `gorm:"column:default_expiry_days;not null;default:0" json:"default_expiry_days"`
	Unit              string    `gorm:"column:unit;type:varchar(16);not null;default:'pcs'" json:"unit"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
