package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLocation is the shelf location used when a receipt or transfer
// creates an inventory row without an explicit position.
const DefaultLocation = "Receiving Area"

// Inventory is the primary stock record, unique per
// (product, warehouse, location). Quantity and AllocatedQuantity are
// non-negative by invariant; every mutation path guards the floor.
type Inventory struct {
	EntityID          uint            `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	ProductID         uint            `gorm:"column:product_id;not null;uniqueIndex:idx_inventory_key,priority:1" json:"product_id"`
	WarehouseID       uint            `gorm:"column:warehouse_id;not null;uniqueIndex:idx_inventory_key,priority:2" json:"warehouse_id"`
	Location          string          `gorm:"column:location;type:varchar(64);not null;default:'Receiving Area';uniqueIndex:idx_inventory_key,priority:3" json:"location"`
	Quantity          int64           `gorm:"column:quantity;not null;default:0" json:"quantity"`
	AllocatedQuantity int64           `gorm:"column:allocated_quantity;not null;default:0" json:"allocated_quantity"`
	BatchNumber       string          `gorm:"column:batch_number;type:varchar(64)" json:"batch_number,omitempty"`
	ExpiryDate        *time.Time      `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	ManufacturingDate *time.Time      `gorm:"column:manufacturing_date" json:"manufacturing_date,omitempty"`
	Supplier          string          `gorm:"column:supplier;type:varchar(128)" json:"supplier,omitempty"`
	CostPrice         decimal.Decimal `gorm:"column:cost_price;type:decimal(20,4);not null;default:0" json:"cost_price"`
	RetailPrice       decimal.Decimal `gorm:"column:retail_price;type:decimal(20,4);not null;default:0" json:"retail_price"`
	Currency          string          `gorm:"column:currency;type:varchar(8);not null;default:'USD'" json:"currency"`
	LastUpdated       time.Time       `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

func (Inventory) TableName() string {
	return "inventory"
}

// Available returns the unallocated on-hand quantity.
func (i *Inventory) Available() int64 {
	return i.Quantity - i.AllocatedQuantity
}
