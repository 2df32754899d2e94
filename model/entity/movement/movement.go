package movement

import "time"

// Movement types. Direction is implied by the type; Quantity is always a
// positive magnitude.
const (
	TypeIncoming   = "Incoming"
	TypeOutgoing   = "Outgoing"
	TypeTransfer   = "Transfer"
	TypeAdjustment = "Adjustment"
)

// Movement statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Movement is one entry of the append-only stock ledger. Rows are immutable
// once created; corrections are modeled as new offsetting movements.
type Movement struct {
	ID              string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	Type            string    `gorm:"column:type;type:varchar(16);not null;index" json:"type"`
	ProductID       uint      `gorm:"column:product_id;not null;index" json:"product_id"`
	FromWarehouseID *uint     `gorm:"column:from_warehouse_id;index" json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *uint     `gorm:"column:to_warehouse_id;index" json:"to_warehouse_id,omitempty"`
	FromLocation    string    `gorm:"column:from_location;type:varchar(64)" json:"from_location,omitempty"`
	ToLocation      string    `gorm:"column:to_location;type:varchar(64)" json:"to_location,omitempty"`
	Quantity        int64     `gorm:"column:quantity;not null" json:"quantity"`
	InitiatedBy     string    `gorm:"column:initiated_by;type:varchar(64);not null" json:"initiated_by"`
	Status          string    `gorm:"column:status;type:varchar(16);not null;default:'completed';index" json:"status"`
	Notes           string    `gorm:"column:notes;type:varchar(255)" json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Movement) TableName() string {
	return "stock_movement"
}
