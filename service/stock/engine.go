package stock

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockmaster.GO/core/cache"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	movementService "stockmaster.GO/service/movement"
)

// lockForUpdate adds a row lock on engines that support it. sqlite has a
// single writer and no FOR UPDATE syntax; the conditional-update guards on
// every decrement keep it safe there regardless.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// applier carries the per-transaction state of one stock mutation: the open
// transaction, the acting identity, and the ledger entries appended so far.
type applier struct {
	tx          *gorm.DB
	initiatedBy string
	created     []movementEntity.Movement
}

func newApplier(tx *gorm.DB, initiatedBy string) *applier {
	return &applier{tx: tx, initiatedBy: initiatedBy}
}

func requireIdentity(initiatedBy string) error {
	if strings.TrimSpace(initiatedBy) == "" {
		return validationf("initiated_by is required")
	}
	return nil
}

func (a *applier) lockProduct(id uint) (*productEntity.Product, error) {
	var p productEntity.Product
	if err := lockForUpdate(a.tx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("product %d", id)
		}
		return nil, err
	}
	return &p, nil
}

func (a *applier) lockWarehouse(id uint) (*warehouseEntity.Warehouse, error) {
	var w warehouseEntity.Warehouse
	if err := lockForUpdate(a.tx).First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("warehouse %d", id)
		}
		return nil, err
	}
	return &w, nil
}

func (a *applier) lockInventoryPair(productID, warehouseID uint) ([]inventoryEntity.Inventory, error) {
	var rows []inventoryEntity.Inventory
	err := lockForUpdate(a.tx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Order("entity_id").Find(&rows).Error
	return rows, err
}

// addProductStock applies a signed delta to the denormalized product total.
// Negative deltas are guarded so the total can never go below zero.
func (a *applier) addProductStock(productID uint, delta int64) error {
	q := a.tx.Model(&productEntity.Product{}).Where("entity_id = ?", productID)
	if delta < 0 {
		q = q.Where("stock + ? >= 0", delta)
	}
	res := q.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return &InsufficientStockError{ProductID: productID, Requested: -delta}
		}
		return notFoundf("product %d", productID)
	}
	return nil
}

// drainInventory decrements qty across the locked rows for one
// (product, warehouse) pair, oldest row first. The conditional WHERE repeats
// the floor check so a lost update can never drive a row negative.
func (a *applier) drainInventory(rows []inventoryEntity.Inventory, productID, warehouseID uint, qty int64) error {
	insufficient := func(available int64) error {
		return &InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Requested:   qty,
			Available:   available,
		}
	}
	var total int64
	for i := range rows {
		total += rows[i].Quantity
	}
	if total < qty {
		return insufficient(total)
	}
	remaining := qty
	for i := range rows {
		if remaining == 0 {
			break
		}
		take := rows[i].Quantity
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		res := a.tx.Model(&inventoryEntity.Inventory{}).
			Where("entity_id = ? AND quantity - ? >= 0", rows[i].EntityID, take).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", take))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return insufficient(total)
		}
		remaining -= take
	}
	if remaining > 0 {
		return insufficient(total)
	}
	return nil
}

// upsertInventory adds qty to the row at (product, warehouse, location),
// creating it with batch defaults derived from the product when absent.
func (a *applier) upsertInventory(p *productEntity.Product, warehouseID uint, location string, qty int64) (*inventoryEntity.Inventory, error) {
	if location == "" {
		location = inventoryEntity.DefaultLocation
	}
	var row inventoryEntity.Inventory
	err := lockForUpdate(a.tx).
		Where("product_id = ? AND warehouse_id = ? AND location = ?", p.EntityID, warehouseID, location).
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		row = inventoryEntity.Inventory{
			ProductID:   p.EntityID,
			WarehouseID: warehouseID,
			Location:    location,
			Quantity:    qty,
		}
		applyBatchDefaults(&row, p)
		if err := a.tx.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	res := a.tx.Model(&inventoryEntity.Inventory{}).
		Where("entity_id = ?", row.EntityID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	row.Quantity += qty
	return &row, nil
}

// appendMovement writes one immutable ledger entry.
func (a *applier) appendMovement(m movementEntity.Movement) error {
	if err := requireIdentity(a.initiatedBy); err != nil {
		return err
	}
	if m.Quantity <= 0 {
		return validationf("movement quantity must be positive")
	}
	m.ID = uuid.NewString()
	m.InitiatedBy = a.initiatedBy
	if m.Status == "" {
		m.Status = movementEntity.StatusCompleted
	}
	if err := a.tx.Create(&m).Error; err != nil {
		return err
	}
	a.created = append(a.created, m)
	return nil
}

// finish runs post-commit side effects: cache invalidation and best-effort
// ledger indexing for search.
func (a *applier) finish() {
	cache.GetInstance().DeleteByTag(cache.TagStock)
	if len(a.created) == 0 {
		return
	}
	if err := movementService.GetSearchService().IndexMovements(a.created); err != nil {
		log.Printf("movement index: %v", err)
	}
}
