package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	documentEntity "stockmaster.GO/model/entity/document"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
)

// DocumentItemInput is one line of a receipt or delivery order.
type DocumentItemInput struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReceiptInput creates a draft receipt.
type ReceiptInput struct {
	Reference   string              `json:"reference" validate:"required"`
	Supplier    string              `json:"supplier"`
	WarehouseID uint                `json:"warehouse_id" validate:"required"`
	Date        time.Time           `json:"date"`
	Items       []DocumentItemInput `json:"items" validate:"required,min=1,dive"`
}

// DeliveryOrderInput creates a draft delivery order.
type DeliveryOrderInput struct {
	Reference   string              `json:"reference" validate:"required"`
	Customer    string              `json:"customer"`
	WarehouseID uint                `json:"warehouse_id" validate:"required"`
	Date        time.Time           `json:"date"`
	Items       []DocumentItemInput `json:"items" validate:"required,min=1,dive"`
}

func checkItems(db *gorm.DB, items []DocumentItemInput) error {
	if len(items) == 0 {
		return validationf("items are required")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return validationf("item quantity must be positive (product %d)", it.ProductID)
		}
		var count int64
		if err := db.Model(&productEntity.Product{}).Where("entity_id = ?", it.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFoundf("product %d", it.ProductID)
		}
	}
	return nil
}

func checkWarehouse(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&warehouseEntity.Warehouse{}).Where("entity_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFoundf("warehouse %d", id)
	}
	return nil
}

// CreateReceipt persists a draft receipt after shape validation.
func CreateReceipt(db *gorm.DB, in ReceiptInput) (*documentEntity.Receipt, error) {
	if err := checkWarehouse(db, in.WarehouseID); err != nil {
		return nil, err
	}
	if err := checkItems(db, in.Items); err != nil {
		return nil, err
	}
	rec := documentEntity.Receipt{
		Reference:   in.Reference,
		Supplier:    in.Supplier,
		WarehouseID: in.WarehouseID,
		Status:      documentEntity.StatusDraft,
		Date:        in.Date,
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	for _, it := range in.Items {
		rec.Items = append(rec.Items, documentEntity.ReceiptItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateDeliveryOrder persists a draft delivery order after shape validation.
func CreateDeliveryOrder(db *gorm.DB, in DeliveryOrderInput) (*documentEntity.DeliveryOrder, error) {
	if err := checkWarehouse(db, in.WarehouseID); err != nil {
		return nil, err
	}
	if err := checkItems(db, in.Items); err != nil {
		return nil, err
	}
	do := documentEntity.DeliveryOrder{
		Reference:   in.Reference,
		Customer:    in.Customer,
		WarehouseID: in.WarehouseID,
		Status:      documentEntity.StatusDraft,
		Date:        in.Date,
	}
	if do.Date.IsZero() {
		do.Date = time.Now()
	}
	for _, it := range in.Items {
		do.Items = append(do.Items, documentEntity.DeliveryOrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := db.Create(&do).Error; err != nil {
		return nil, err
	}
	return &do, nil
}

func guardDocumentStatus(status string) error {
	switch status {
	case documentEntity.StatusValidated:
		return ErrAlreadyValidated
	case documentEntity.StatusCancelled:
		return ErrCancelled
	}
	return nil
}

// applyBatchDefaults stamps a freshly created inventory row with batch info
// derived from the product: perishables get an expiry from today plus the
// product's default shelf life.
func applyBatchDefaults(row *inventoryEntity.Inventory, p *productEntity.Product) {
	now := time.Now()
	row.ManufacturingDate = &now
	if p.IsPerishable && p.DefaultExpiryDays > 0 {
		exp := now.AddDate(0, 0, p.DefaultExpiryDays)
		row.ExpiryDate = &exp
	}
}

// receiveItem applies one incoming line: product total up, inventory upsert
// at the receiving area, warehouse aggregate up, ledger append.
func (a *applier) receiveItem(wh *warehouseEntity.Warehouse, productID uint, qty int64) error {
	if qty <= 0 {
		return validationf("item quantity must be positive (product %d)", productID)
	}
	p, err := a.lockProduct(productID)
	if err != nil {
		return err
	}
	if err := a.addProductStock(productID, qty); err != nil {
		return err
	}
	if _, err := a.upsertInventory(p, wh.EntityID, inventoryEntity.DefaultLocation, qty); err != nil {
		return err
	}
	wh.AddBreakdown(productID, qty)
	wh.CurrentOccupancy += qty
	return a.appendMovement(movementEntity.Movement{
		Type:          movementEntity.TypeIncoming,
		ProductID:     productID,
		ToWarehouseID: &wh.EntityID,
		ToLocation:    inventoryEntity.DefaultLocation,
		Quantity:      qty,
	})
}

// shipItem applies one outgoing line: sufficiency guards on the product total
// and the pair's inventory rows, then the mirrored decrements and a ledger
// append. Any failure aborts the surrounding transaction.
func (a *applier) shipItem(wh *warehouseEntity.Warehouse, productID uint, qty int64) error {
	if qty <= 0 {
		return validationf("item quantity must be positive (product %d)", productID)
	}
	p, err := a.lockProduct(productID)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return &InsufficientStockError{ProductID: productID, WarehouseID: wh.EntityID, Requested: qty, Available: p.Stock}
	}
	rows, err := a.lockInventoryPair(productID, wh.EntityID)
	if err != nil {
		return err
	}
	if err := a.drainInventory(rows, productID, wh.EntityID, qty); err != nil {
		return err
	}
	if err := a.addProductStock(productID, -qty); err != nil {
		return err
	}
	wh.AddBreakdown(productID, -qty)
	wh.CurrentOccupancy -= qty
	if wh.CurrentOccupancy < 0 {
		wh.CurrentOccupancy = 0
	}
	return a.appendMovement(movementEntity.Movement{
		Type:            movementEntity.TypeOutgoing,
		ProductID:       productID,
		FromWarehouseID: &wh.EntityID,
		Quantity:        qty,
	})
}

// ValidateReceipt atomically applies every line of a draft receipt and flips
// it to Validated. Either all items' effects and the status change commit
// together, or none do.
func ValidateReceipt(db *gorm.DB, id uint, initiatedBy string) (*documentEntity.Receipt, error) {
	if err := requireIdentity(initiatedBy); err != nil {
		return nil, err
	}
	var rec documentEntity.Receipt
	var a *applier
	err := db.Transaction(func(tx *gorm.DB) error {
		a = newApplier(tx, initiatedBy)
		if err := lockForUpdate(tx).Preload("Items").First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("receipt %d", id)
			}
			return err
		}
		if err := guardDocumentStatus(rec.Status); err != nil {
			return fmt.Errorf("receipt %d: %w", id, err)
		}
		wh, err := a.lockWarehouse(rec.WarehouseID)
		if err != nil {
			return err
		}
		for _, it := range rec.Items {
			if err := a.receiveItem(wh, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Save(wh).Error; err != nil {
			return err
		}
		rec.Status = documentEntity.StatusValidated
		return tx.Model(&documentEntity.Receipt{}).
			Where("entity_id = ?", rec.EntityID).
			UpdateColumn("status", documentEntity.StatusValidated).Error
	})
	if err != nil {
		return nil, err
	}
	a.finish()
	return &rec, nil
}

// ValidateDeliveryOrder atomically applies every line of a delivery order and
// flips it to Validated, with per-item sufficiency guards. A single failing
// line rolls back the whole document.
func ValidateDeliveryOrder(db *gorm.DB, id uint, initiatedBy string) (*documentEntity.DeliveryOrder, error) {
	if err := requireIdentity(initiatedBy); err != nil {
		return nil, err
	}
	var do documentEntity.DeliveryOrder
	var a *applier
	err := db.Transaction(func(tx *gorm.DB) error {
		a = newApplier(tx, initiatedBy)
		if err := lockForUpdate(tx).Preload("Items").First(&do, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("delivery order %d", id)
			}
			return err
		}
		if err := guardDocumentStatus(do.Status); err != nil {
			return fmt.Errorf("delivery order %d: %w", id, err)
		}
		wh, err := a.lockWarehouse(do.WarehouseID)
		if err != nil {
			return err
		}
		for _, it := range do.Items {
			if err := a.shipItem(wh, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Save(wh).Error; err != nil {
			return err
		}
		do.Status = documentEntity.StatusValidated
		return tx.Model(&documentEntity.DeliveryOrder{}).
			Where("entity_id = ?", do.EntityID).
			UpdateColumn("status", documentEntity.StatusValidated).Error
	})
	if err != nil {
		return nil, err
	}
	a.finish()
	return &do, nil
}

// UpdateDeliveryOrderStatus walks the delivery order through its forward
// transitions. Validated is reachable only via ValidateDeliveryOrder.
func UpdateDeliveryOrderStatus(db *gorm.DB, id uint, newStatus string) (*documentEntity.DeliveryOrder, error) {
	if !documentEntity.ValidStatus(newStatus) {
		return nil, validationf("unknown status %q", newStatus)
	}
	if newStatus == documentEntity.StatusValidated {
		return nil, validationf("status Validated is set by the validate operation only")
	}
	var do documentEntity.DeliveryOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&do, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("delivery order %d", id)
			}
			return err
		}
		if err := guardDocumentStatus(do.Status); err != nil {
			return fmt.Errorf("delivery order %d: %w", id, err)
		}
		if !documentEntity.CanTransition(do.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, do.Status, newStatus)
		}
		do.Status = newStatus
		return tx.Model(&documentEntity.DeliveryOrder{}).
			Where("entity_id = ?", do.EntityID).
			UpdateColumn("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &do, nil
}

// CancelReceipt moves a draft receipt to its Cancelled terminal state.
func CancelReceipt(db *gorm.DB, id uint) (*documentEntity.Receipt, error) {
	var rec documentEntity.Receipt
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("receipt %d", id)
			}
			return err
		}
		if err := guardDocumentStatus(rec.Status); err != nil {
			return fmt.Errorf("receipt %d: %w", id, err)
		}
		rec.Status = documentEntity.StatusCancelled
		return tx.Model(&documentEntity.Receipt{}).
			Where("entity_id = ?", rec.EntityID).
			UpdateColumn("status", documentEntity.StatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
