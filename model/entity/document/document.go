package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document statuses. Receipt uses Draft/Validated/Cancelled; DeliveryOrder
// additionally walks Draft -> Picked -> Packed before validation. Validated
// and Cancelled are terminal.
const (
	StatusDraft     = "Draft"
	StatusPicked    = "Picked"
	StatusPacked    = "Packed"
	StatusValidated = "Validated"
	StatusCancelled = "Cancelled"
)

// Receipt is an incoming stock document (goods from an external supplier).
type Receipt struct {
	EntityID    uint          `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	Reference   string        `gorm:"column:reference;type:varchar(64);not null;index" json:"reference"`
	Supplier    string        `gorm:"column:supplier;type:varchar(128)" json:"supplier,omitempty"`
	WarehouseID uint          `gorm:"column:warehouse_id;not null;index" json:"warehouse_id"`
	Status      string        `gorm:"column:status;type:varchar(16);not null;default:'Draft'" json:"status"`
	Date        time.Time     `gorm:"column:date" json:"date"`
	Items       []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Receipt) TableName() string {
	return "receipt"
}

type ReceiptItem struct {
	EntityID  uint            `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	ReceiptID uint            `gorm:"column:receipt_id;not null;index" json:"receipt_id"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int64           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(20,4);not null;default:0" json:"unit_price"`
}

func (ReceiptItem) TableName() string {
	return "receipt_item"
}

// DeliveryOrder is an outgoing stock document (goods to an external customer).
type DeliveryOrder struct {
	EntityID    uint                `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	Reference   string              `gorm:"column:reference;type:varchar(64);not null;index" json:"reference"`
	Customer    string              `gorm:"column:customer;type:varchar(128)" json:"customer,omitempty"`
	WarehouseID uint                `gorm:"column:warehouse_id;not null;index" json:"warehouse_id"`
	Status      string              `gorm:"column:status;type:varchar(16);not null;default:'Draft'" json:"status"`
	Date        time.Time           `gorm:"column:date" json:"date"`
	Items       []DeliveryOrderItem `gorm:"foreignKey:DeliveryOrderID" json:"items"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DeliveryOrder) TableName() string {
	return "delivery_order"
}

type DeliveryOrderItem struct {
	EntityID        uint            `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	DeliveryOrderID uint            `gorm:"column:delivery_order_id;not null;index" json:"delivery_order_id"`
	ProductID       uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity        int64           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:decimal(20,4);not null;default:0" json:"unit_price"`
}

func (DeliveryOrderItem) TableName() string {
	return "delivery_order_item"
}

// deliveryTransitions are the forward transitions reachable through the
// status-update entry point. Validated is reachable only through the
// dedicated validate operation.
var deliveryTransitions = map[string][]string{
	StatusDraft:  {StatusPicked, StatusCancelled},
	StatusPicked: {StatusPacked, StatusCancelled},
	StatusPacked: {StatusCancelled},
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPicked, StatusPacked, StatusValidated, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a delivery order may move from -> to via the
// generic status update.
func CanTransition(from, to string) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func Terminal(s string) bool {
	return s == StatusValidated || s == StatusCancelled
}
