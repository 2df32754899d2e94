package stock

import (
	"errors"

	"gorm.io/gorm"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
)

// AdjustInput is a signed manual correction against one inventory row.
type AdjustInput struct {
	ProductID   uint   `json:"product_id" validate:"required"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
	Location    string `json:"location"`
	Quantity    int64  `json:"quantity" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	InitiatedBy string `json:"initiated_by" validate:"required"`
}

// Adjust applies a signed delta to the row at (product, warehouse, location),
// creating it when absent, and mirrors the delta into the product total, the
// warehouse aggregates, and the ledger. Quantity is hard-floored at zero and
// may not fall below the row's outstanding allocation.
func Adjust(db *gorm.DB, in AdjustInput) (*inventoryEntity.Inventory, error) {
	if in.Quantity == 0 {
		return nil, validationf("quantity delta must be non-zero")
	}
	if err := requireIdentity(in.InitiatedBy); err != nil {
		return nil, err
	}
	location := in.Location
	if location == "" {
		location = inventoryEntity.DefaultLocation
	}

	var result *inventoryEntity.Inventory
	var a *applier
	err := db.Transaction(func(tx *gorm.DB) error {
		a = newApplier(tx, in.InitiatedBy)
		p, err := a.lockProduct(in.ProductID)
		if err != nil {
			return err
		}
		wh, err := a.lockWarehouse(in.WarehouseID)
		if err != nil {
			return err
		}

		var row inventoryEntity.Inventory
		err = lockForUpdate(tx).
			Where("product_id = ? AND warehouse_id = ? AND location = ?", in.ProductID, in.WarehouseID, location).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if in.Quantity < 0 {
				return validationf("adjustment would create negative stock")
			}
			row = inventoryEntity.Inventory{
				ProductID:   in.ProductID,
				WarehouseID: in.WarehouseID,
				Location:    location,
				Quantity:    in.Quantity,
			}
			applyBatchDefaults(&row, p)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			next := row.Quantity + in.Quantity
			if next < 0 {
				return validationf("adjustment of %d would drive quantity below zero (current %d)", in.Quantity, row.Quantity)
			}
			if next < row.AllocatedQuantity {
				return validationf("adjustment of %d would drop quantity below allocated %d", in.Quantity, row.AllocatedQuantity)
			}
			res := tx.Model(&inventoryEntity.Inventory{}).
				Where("entity_id = ? AND quantity + ? >= allocated_quantity AND quantity + ? >= 0",
					row.EntityID, in.Quantity, in.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", in.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return validationf("adjustment lost to a concurrent update, retry")
			}
			row.Quantity = next
		}

		if err := a.addProductStock(in.ProductID, in.Quantity); err != nil {
			return err
		}
		wh.AddBreakdown(in.ProductID, in.Quantity)
		wh.CurrentOccupancy += in.Quantity
		if wh.CurrentOccupancy < 0 {
			wh.CurrentOccupancy = 0
		}
		if err := tx.Save(wh).Error; err != nil {
			return err
		}

		m := movementEntity.Movement{
			Type:      movementEntity.TypeAdjustment,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Notes:     in.Reason,
		}
		if in.Quantity > 0 {
			m.ToWarehouseID = &wh.EntityID
			m.ToLocation = location
		} else {
			m.Quantity = -in.Quantity
			m.FromWarehouseID = &wh.EntityID
			m.FromLocation = location
		}
		if err := a.appendMovement(m); err != nil {
			return err
		}
		result = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.finish()
	return result, nil
}
