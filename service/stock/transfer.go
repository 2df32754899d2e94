package stock

import (
	"errors"

	"gorm.io/gorm"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
)

// TransferInput moves stock of one product between two warehouses.
type TransferInput struct {
	ProductID       uint   `json:"product_id" validate:"required"`
	FromWarehouseID uint   `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   uint   `json:"to_warehouse_id" validate:"required"`
	FromLocation    string `json:"from_location"`
	ToLocation      string `json:"to_location"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
	InitiatedBy     string `json:"initiated_by" validate:"required"`
}

// RecordTransfer atomically moves qty units of a product from one warehouse
// to another: source rows drained with a sufficiency guard, destination row
// upserted, both warehouses' aggregates maintained, one Transfer ledger
// entry appended. The product's total stock is unchanged.
func RecordTransfer(db *gorm.DB, in TransferInput) (*movementEntity.Movement, error) {
	if in.Quantity <= 0 {
		return nil, validationf("quantity must be positive")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, validationf("source and destination warehouse must differ")
	}
	if err := requireIdentity(in.InitiatedBy); err != nil {
		return nil, err
	}

	var a *applier
	err := db.Transaction(func(tx *gorm.DB) error {
		a = newApplier(tx, in.InitiatedBy)
		p, err := a.lockProduct(in.ProductID)
		if err != nil {
			return err
		}

		// Lock warehouses in ID order so two opposing transfers cannot
		// deadlock.
		first, second := in.FromWarehouseID, in.ToWarehouseID
		if second < first {
			first, second = second, first
		}
		locked := make(map[uint]*warehouseEntity.Warehouse, 2)
		for _, id := range []uint{first, second} {
			wh, err := a.lockWarehouse(id)
			if err != nil {
				return err
			}
			locked[id] = wh
		}
		src, dst := locked[in.FromWarehouseID], locked[in.ToWarehouseID]

		var rows []inventoryEntity.Inventory
		if in.FromLocation != "" {
			var row inventoryEntity.Inventory
			err = lockForUpdate(tx).
				Where("product_id = ? AND warehouse_id = ? AND location = ?",
					in.ProductID, in.FromWarehouseID, in.FromLocation).
				First(&row).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &InsufficientStockError{
						ProductID:   in.ProductID,
						WarehouseID: in.FromWarehouseID,
						Requested:   in.Quantity,
					}
				}
				return err
			}
			rows = []inventoryEntity.Inventory{row}
		} else {
			rows, err = a.lockInventoryPair(in.ProductID, in.FromWarehouseID)
			if err != nil {
				return err
			}
		}
		if err := a.drainInventory(rows, in.ProductID, in.FromWarehouseID, in.Quantity); err != nil {
			return err
		}

		dest, err := a.upsertInventory(p, in.ToWarehouseID, in.ToLocation, in.Quantity)
		if err != nil {
			return err
		}
		// Carry batch identity across the move when the destination row is
		// new and the source batch is known.
		if len(rows) == 1 && dest.Quantity == in.Quantity && rows[0].BatchNumber != "" {
			updates := map[string]interface{}{
				"batch_number": rows[0].BatchNumber,
				"supplier":     rows[0].Supplier,
				"cost_price":   rows[0].CostPrice,
				"retail_price": rows[0].RetailPrice,
				"currency":     rows[0].Currency,
			}
			if rows[0].ExpiryDate != nil {
				updates["expiry_date"] = *rows[0].ExpiryDate
			}
			if err := tx.Model(&inventoryEntity.Inventory{}).
				Where("entity_id = ?", dest.EntityID).Updates(updates).Error; err != nil {
				return err
			}
		}

		src.AddBreakdown(in.ProductID, -in.Quantity)
		src.CurrentOccupancy -= in.Quantity
		if src.CurrentOccupancy < 0 {
			src.CurrentOccupancy = 0
		}
		dst.AddBreakdown(in.ProductID, in.Quantity)
		dst.CurrentOccupancy += in.Quantity
		if err := tx.Save(src).Error; err != nil {
			return err
		}
		if err := tx.Save(dst).Error; err != nil {
			return err
		}

		fromLoc := in.FromLocation
		if fromLoc == "" && len(rows) == 1 {
			fromLoc = rows[0].Location
		}
		toLoc := in.ToLocation
		if toLoc == "" {
			toLoc = inventoryEntity.DefaultLocation
		}
		return a.appendMovement(movementEntity.Movement{
			Type:            movementEntity.TypeTransfer,
			ProductID:       in.ProductID,
			FromWarehouseID: &in.FromWarehouseID,
			ToWarehouseID:   &in.ToWarehouseID,
			FromLocation:    fromLoc,
			ToLocation:      toLoc,
			Quantity:        in.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}
	a.finish()
	return &a.created[len(a.created)-1], nil
}
