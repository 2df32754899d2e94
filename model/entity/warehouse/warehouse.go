package warehouse

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Warehouse represents the warehouse table. CurrentOccupancy and
// StockBreakdown are denormalized from inventory rows; the stock engine keeps
// them in step inside the same transaction as every inventory write, and the
// occupancy sync recomputes them from scratch.
type Warehouse struct {
	EntityID         uint                                  `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	Name             string                                `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Location         string                                `gorm:"column:location;type:varchar(255)" json:"location"`
	Capacity         int64                                 `gorm:"column:capacity;not null;default:0" json:"capacity"`
	CurrentOccupancy int64                                 `gorm:"column:current_occupancy;not null;default:0" json:"current_occupancy"`
	ManagerID        *uint                                 `gorm:"column:manager_id" json:"manager_id,omitempty"`
	StockBreakdown   datatypes.JSONType[map[string]int64]  `gorm:"column:stock_breakdown" json:"stock_breakdown"`
	CreatedAt        time.Time                             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Warehouse) TableName() string {
	return "warehouse"
}

// BreakdownQty returns the tracked quantity for a product, 0 if absent.
func (w *Warehouse) BreakdownQty(productID uint) int64 {
	m := w.StockBreakdown.Data()
	if m == nil {
		return 0
	}
	return m[strconv.FormatUint(uint64(productID), 10)]
}

// AddBreakdown applies a signed delta to the per-product breakdown, floored
// at zero, and returns the delta actually applied to the entry.
func (w *Warehouse) AddBreakdown(productID uint, delta int64) int64 {
	m := w.StockBreakdown.Data()
	if m == nil {
		m = make(map[string]int64)
	}
	key := strconv.FormatUint(uint64(productID), 10)
	next := m[key] + delta
	if next < 0 {
		delta -= next
		next = 0
	}
	if next == 0 {
		delete(m, key)
	} else {
		m[key] = next
	}
	w.StockBreakdown = datatypes.NewJSONType(m)
	return delta
}

// SetBreakdown overwrites the breakdown map (reconciliation).
func (w *Warehouse) SetBreakdown(m map[string]int64) {
	w.StockBreakdown = datatypes.NewJSONType(m)
}
