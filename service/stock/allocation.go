package stock

import (
	"gorm.io/gorm"

	"stockmaster.GO/core/cache"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
)

// Allocate reserves qty units on the (product, warehouse) pair. The reserve
// is written with a conditional update — the increment lands only where the
// resulting allocation still fits inside the stored quantity — so no
// intermediate over-allocated state is ever visible.
func Allocate(db *gorm.DB, productID, warehouseID uint, qty int64) error {
	if qty <= 0 {
		return validationf("quantity must be positive")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		a := newApplier(tx, "")
		rows, err := a.lockInventoryPair(productID, warehouseID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return notFoundf("inventory for product %d in warehouse %d", productID, warehouseID)
		}
		var available int64
		for i := range rows {
			available += rows[i].Available()
		}
		if available < qty {
			return &InsufficientStockError{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Requested:   qty,
				Available:   available,
			}
		}
		remaining := qty
		for i := range rows {
			if remaining == 0 {
				break
			}
			head := rows[i].Available()
			if head <= 0 {
				continue
			}
			take := head
			if take > remaining {
				take = remaining
			}
			res := tx.Model(&inventoryEntity.Inventory{}).
				Where("entity_id = ? AND allocated_quantity + ? <= quantity", rows[i].EntityID, take).
				UpdateColumn("allocated_quantity", gorm.Expr("allocated_quantity + ?", take))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{
					ProductID:   productID,
					WarehouseID: warehouseID,
					Requested:   qty,
					Available:   available,
				}
			}
			remaining -= take
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.GetInstance().DeleteByTag(cache.TagStock)
	return nil
}

// Release returns qty reserved units on the (product, warehouse) pair.
// Releasing more than is currently allocated is a validation error; the
// reserve never goes negative.
func Release(db *gorm.DB, productID, warehouseID uint, qty int64) error {
	if qty <= 0 {
		return validationf("quantity must be positive")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		a := newApplier(tx, "")
		rows, err := a.lockInventoryPair(productID, warehouseID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return notFoundf("inventory for product %d in warehouse %d", productID, warehouseID)
		}
		var allocated int64
		for i := range rows {
			allocated += rows[i].AllocatedQuantity
		}
		if allocated < qty {
			return validationf("release of %d exceeds allocated %d", qty, allocated)
		}
		remaining := qty
		for i := range rows {
			if remaining == 0 {
				break
			}
			take := rows[i].AllocatedQuantity
			if take <= 0 {
				continue
			}
			if take > remaining {
				take = remaining
			}
			res := tx.Model(&inventoryEntity.Inventory{}).
				Where("entity_id = ? AND allocated_quantity - ? >= 0", rows[i].EntityID, take).
				UpdateColumn("allocated_quantity", gorm.Expr("allocated_quantity - ?", take))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return validationf("release of %d exceeds allocated %d", qty, allocated)
			}
			remaining -= take
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.GetInstance().DeleteByTag(cache.TagStock)
	return nil
}
