package alert

import "time"

// Alert types.
const (
	TypeLowStock    = "low-stock"
	TypeExpiry      = "expiry"
	TypeDiscrepancy = "discrepancy"
)

// Alert statuses. Active and acknowledged alerts count as "open" for
// deduplication; resolved alerts do not.
const (
	StatusActive       = "active"
	StatusAcknowledged = "acknowledged"
	StatusResolved     = "resolved"
)

// Alert is a threshold-breach record raised by the evaluator (or created
// manually through the API). At most one open alert exists per
// (type, product) or (type, warehouse) key.
type Alert struct {
	EntityID       uint       `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	Type           string     `gorm:"column:type;type:varchar(16);not null;index" json:"type"`
	ProductID      *uint      `gorm:"column:product_id;index" json:"product_id,omitempty"`
	WarehouseID    *uint      `gorm:"column:warehouse_id;index" json:"warehouse_id,omitempty"`
	Threshold      int64      `gorm:"column:threshold;not null;default:0" json:"threshold"`
	CurrentValue   int64      `gorm:"column:current_value;not null;default:0" json:"current_value"`
	Status         string     `gorm:"column:status;type:varchar(16);not null;default:'active';index" json:"status"`
	Notes          string     `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	AcknowledgedAt *time.Time `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
}

func (Alert) TableName() string {
	return "alert"
}

// Open reports whether the alert still suppresses a duplicate.
func (a *Alert) Open() bool {
	return a.Status == StatusActive || a.Status == StatusAcknowledged
}
