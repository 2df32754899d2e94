package alert

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	alertEntity "stockmaster.GO/model/entity/alert"
	alertRepo "stockmaster.GO/model/repository/alert"
	inventoryRepo "stockmaster.GO/model/repository/inventory"
	productRepo "stockmaster.GO/model/repository/product"
	warehouseRepo "stockmaster.GO/model/repository/warehouse"
)

// Check sweeps products, inventory and warehouses for threshold breaches and
// returns the alerts it created. The sweep is stateless: it reads current
// store state only, never auto-resolves, and an open alert for the same key
// suppresses a duplicate, so re-running is always safe.
func Check(db *gorm.DB) ([]alertEntity.Alert, error) {
	aRepo := alertRepo.GetAlertRepository(db)
	iRepo, err := inventoryRepo.GetInventoryRepository(db)
	if err != nil {
		return nil, err
	}

	var created []alertEntity.Alert
	raise := func(a alertEntity.Alert) error {
		if err := aRepo.Create(&a); err != nil {
			return err
		}
		created = append(created, a)
		return nil
	}

	// Low stock, measured against the product's home warehouse.
	products, err := productRepo.GetProductRepository(db).FindWithMinStock()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		qty, err := iRepo.SumQuantityByPair(p.EntityID, p.WarehouseID)
		if err != nil {
			return nil, err
		}
		if qty >= p.MinStockLevel {
			continue
		}
		open, err := aRepo.HasOpenForProduct(alertEntity.TypeLowStock, p.EntityID)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}
		pid := p.EntityID
		wid := p.WarehouseID
		if err := raise(alertEntity.Alert{
			Type:         alertEntity.TypeLowStock,
			ProductID:    &pid,
			WarehouseID:  &wid,
			Threshold:    p.MinStockLevel,
			CurrentValue: qty,
			Notes:        fmt.Sprintf("%s below minimum stock level in home warehouse", p.Name),
		}); err != nil {
			return nil, err
		}
	}

	// Complete stockout rows.
	zeroRows, err := iRepo.FindZeroQuantity()
	if err != nil {
		return nil, err
	}
	for _, row := range zeroRows {
		open, err := aRepo.HasOpenForProduct(alertEntity.TypeDiscrepancy, row.ProductID)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}
		pid := row.ProductID
		wid := row.WarehouseID
		if err := raise(alertEntity.Alert{
			Type:        alertEntity.TypeDiscrepancy,
			ProductID:   &pid,
			WarehouseID: &wid,
			Notes:       "complete stockout",
		}); err != nil {
			return nil, err
		}
	}

	// Expiring and expired batches. Dedup is keyed on (expiry, product) only,
	// so a second expiring batch of the same product is suppressed while any
	// expiry alert for it stays open.
	expiryRows, err := iRepo.FindWithExpiry()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, row := range expiryRows {
		if row.ExpiryDate == nil {
			continue
		}
		days := int(time.Until(*row.ExpiryDate).Hours() / 24)
		var notes string
		switch {
		case row.ExpiryDate.Before(now):
			notes = fmt.Sprintf("batch %s already expired", row.BatchNumber)
		case days >= 0 && days <= 7:
			notes = fmt.Sprintf("batch %s expires in %d days", row.BatchNumber, days+1)
		default:
			continue
		}
		open, err := aRepo.HasOpenForProduct(alertEntity.TypeExpiry, row.ProductID)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}
		pid := row.ProductID
		wid := row.WarehouseID
		if err := raise(alertEntity.Alert{
			Type:        alertEntity.TypeExpiry,
			ProductID:   &pid,
			WarehouseID: &wid,
			Notes:       notes,
		}); err != nil {
			return nil, err
		}
	}

	// Warehouses filled past capacity.
	overCap, err := warehouseRepo.GetWarehouseRepository(db).FindOverCapacity()
	if err != nil {
		return nil, err
	}
	for _, w := range overCap {
		open, err := aRepo.HasOpenForWarehouse(alertEntity.TypeDiscrepancy, w.EntityID)
		if err != nil {
			return nil, err
		}
		if open {
			continue
		}
		wid := w.EntityID
		if err := raise(alertEntity.Alert{
			Type:         alertEntity.TypeDiscrepancy,
			WarehouseID:  &wid,
			Threshold:    w.Capacity,
			CurrentValue: w.CurrentOccupancy,
			Notes:        fmt.Sprintf("%s over capacity", w.Name),
		}); err != nil {
			return nil, err
		}
	}

	return created, nil
}
