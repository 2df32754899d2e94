package stock

import (
	"fmt"

	"gorm.io/gorm"

	alertEntity "stockmaster.GO/model/entity/alert"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	alertRepo "stockmaster.GO/model/repository/alert"
	inventoryRepo "stockmaster.GO/model/repository/inventory"
)

// SyncResult reports one reconciliation pass.
type SyncResult struct {
	Drift    bool  `json:"drift"`
	Recorded int64 `json:"recorded"`
	Actual   int64 `json:"actual"`
}

// SyncProductStock recomputes a product's denormalized total from the
// inventory rows and overwrites it. Pure function of current inventory
// state — safe to re-run at any time. A detected mismatch raises a
// discrepancy alert so drift does not pass silently.
func SyncProductStock(db *gorm.DB, productID uint) (*SyncResult, error) {
	var result SyncResult
	err := db.Transaction(func(tx *gorm.DB) error {
		a := newApplier(tx, "")
		p, err := a.lockProduct(productID)
		if err != nil {
			return err
		}
		var actual int64
		if err := tx.Raw(`SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = ?`, productID).
			Scan(&actual).Error; err != nil {
			return err
		}
		result = SyncResult{Drift: p.Stock != actual, Recorded: p.Stock, Actual: actual}
		if !result.Drift {
			return nil
		}
		if err := tx.Model(&productEntity.Product{}).
			Where("entity_id = ?", productID).
			UpdateColumn("stock", actual).Error; err != nil {
			return err
		}
		return raiseDriftAlert(tx, &productID, nil, p.Stock, actual,
			fmt.Sprintf("product %d stock drift: recorded %d, inventory total %d", productID, p.Stock, actual))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncWarehouseOccupancy recomputes a warehouse's occupancy and per-product
// breakdown from the inventory rows and overwrites both. Idempotent.
func SyncWarehouseOccupancy(db *gorm.DB, warehouseID uint) (*SyncResult, error) {
	var result SyncResult
	err := db.Transaction(func(tx *gorm.DB) error {
		a := newApplier(tx, "")
		wh, err := a.lockWarehouse(warehouseID)
		if err != nil {
			return err
		}
		repo, err := inventoryRepo.NewInventoryRepository(tx)
		if err != nil {
			return err
		}
		breakdown, err := repo.BreakdownByWarehouse(warehouseID)
		if err != nil {
			return err
		}
		var actual int64
		for _, qty := range breakdown {
			actual += qty
		}
		result = SyncResult{Drift: wh.CurrentOccupancy != actual, Recorded: wh.CurrentOccupancy, Actual: actual}
		wh.SetBreakdown(breakdown)
		wh.CurrentOccupancy = actual
		if err := tx.Save(wh).Error; err != nil {
			return err
		}
		if !result.Drift {
			return nil
		}
		return raiseDriftAlert(tx, nil, &warehouseID, result.Recorded, actual,
			fmt.Sprintf("warehouse %d occupancy drift: recorded %d, inventory total %d", warehouseID, result.Recorded, actual))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncAll reconciles every product and warehouse and reports how many showed
// drift. This is the scheduled recovery path for partial failures and direct
// inventory edits that bypassed the document workflow.
func SyncAll(db *gorm.DB) (drifted int, err error) {
	var productIDs []uint
	if err := db.Model(&productEntity.Product{}).Pluck("entity_id", &productIDs).Error; err != nil {
		return 0, err
	}
	for _, id := range productIDs {
		res, err := SyncProductStock(db, id)
		if err != nil {
			return drifted, err
		}
		if res.Drift {
			drifted++
		}
	}
	var warehouseIDs []uint
	if err := db.Model(&warehouseEntity.Warehouse{}).Pluck("entity_id", &warehouseIDs).Error; err != nil {
		return drifted, err
	}
	for _, id := range warehouseIDs {
		res, err := SyncWarehouseOccupancy(db, id)
		if err != nil {
			return drifted, err
		}
		if res.Drift {
			drifted++
		}
	}
	return drifted, nil
}

// raiseDriftAlert creates a discrepancy alert unless an open one already
// covers the same product or warehouse.
func raiseDriftAlert(tx *gorm.DB, productID, warehouseID *uint, recorded, actual int64, notes string) error {
	alerts := alertRepo.NewAlertRepository(tx)
	if productID != nil {
		exists, err := alerts.HasOpenForProduct(alertEntity.TypeDiscrepancy, *productID)
		if err != nil || exists {
			return err
		}
	} else if warehouseID != nil {
		exists, err := alerts.HasOpenForWarehouse(alertEntity.TypeDiscrepancy, *warehouseID)
		if err != nil || exists {
			return err
		}
	}
	return alerts.Create(&alertEntity.Alert{
		Type:         alertEntity.TypeDiscrepancy,
		ProductID:    productID,
		WarehouseID:  warehouseID,
		Threshold:    recorded,
		CurrentValue: actual,
		Status:       alertEntity.StatusActive,
		Notes:        notes,
	})
}
