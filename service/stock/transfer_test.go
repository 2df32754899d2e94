package stock_test

import (
	"errors"
	"testing"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	stockService "stockmaster.GO/service/stock"
)

func TestRecordTransfer_MovesStockBetweenWarehouses(t *testing.T) {
	db := newTestDB(t)
	src := seedWarehouse(t, db, "Source", 0)
	dst := seedWarehouse(t, db, "Destination", 0)
	widget := seedProduct(t, db, "Widget", src.EntityID)
	receive(t, db, src.EntityID, widget.EntityID, 50)

	m, err := stockService.RecordTransfer(db, stockService.TransferInput{
		ProductID:       widget.EntityID,
		FromWarehouseID: src.EntityID,
		ToWarehouseID:   dst.EntityID,
		Quantity:        20,
		InitiatedBy:     "mover",
	})
	if err != nil {
		t.Fatalf("RecordTransfer: %v", err)
	}
	if m.Type != movementEntity.TypeTransfer {
		t.Errorf("movement type = %q, want Transfer", m.Type)
	}
	if m.FromWarehouseID == nil || *m.FromWarehouseID != src.EntityID {
		t.Errorf("from = %v, want %d", m.FromWarehouseID, src.EntityID)
	}
	if m.ToWarehouseID == nil || *m.ToWarehouseID != dst.EntityID {
		t.Errorf("to = %v, want %d", m.ToWarehouseID, dst.EntityID)
	}

	// The product's total stock is unchanged by an internal move.
	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 50 {
		t.Errorf("total stock = %d, want 50", got)
	}

	var srcRow, dstRow inventoryEntity.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", widget.EntityID, src.EntityID).First(&srcRow).Error; err != nil {
		t.Fatalf("source row: %v", err)
	}
	if err := db.Where("product_id = ? AND warehouse_id = ?", widget.EntityID, dst.EntityID).First(&dstRow).Error; err != nil {
		t.Fatalf("destination row: %v", err)
	}
	if srcRow.Quantity != 30 {
		t.Errorf("source quantity = %d, want 30", srcRow.Quantity)
	}
	if dstRow.Quantity != 20 {
		t.Errorf("destination quantity = %d, want 20", dstRow.Quantity)
	}

	if got := reloadWarehouse(t, db, src.EntityID).CurrentOccupancy; got != 30 {
		t.Errorf("source occupancy = %d, want 30", got)
	}
	after := reloadWarehouse(t, db, dst.EntityID)
	if after.CurrentOccupancy != 20 {
		t.Errorf("destination occupancy = %d, want 20", after.CurrentOccupancy)
	}
	if got := after.BreakdownQty(widget.EntityID); got != 20 {
		t.Errorf("destination breakdown = %d, want 20", got)
	}

	if n := countMovements(t, db, movementEntity.TypeTransfer); n != 1 {
		t.Errorf("transfer movements = %d, want 1", n)
	}
}

func TestRecordTransfer_InsufficientLeavesBothSidesUntouched(t *testing.T) {
	db := newTestDB(t)
	src := seedWarehouse(t, db, "Source", 0)
	dst := seedWarehouse(t, db, "Destination", 0)
	widget := seedProduct(t, db, "Widget", src.EntityID)
	receive(t, db, src.EntityID, widget.EntityID, 10)

	_, err := stockService.RecordTransfer(db, stockService.TransferInput{
		ProductID:       widget.EntityID,
		FromWarehouseID: src.EntityID,
		ToWarehouseID:   dst.EntityID,
		Quantity:        11,
		InitiatedBy:     "mover",
	})
	if !errors.Is(err, stockService.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if got := reloadWarehouse(t, db, src.EntityID).CurrentOccupancy; got != 10 {
		t.Errorf("source occupancy = %d, want 10", got)
	}
	if got := reloadWarehouse(t, db, dst.EntityID).CurrentOccupancy; got != 0 {
		t.Errorf("destination occupancy = %d, want 0", got)
	}
	var count int64
	db.Model(&inventoryEntity.Inventory{}).Where("warehouse_id = ?", dst.EntityID).Count(&count)
	if count != 0 {
		t.Errorf("destination rows = %d, want 0", count)
	}
	if n := countMovements(t, db, movementEntity.TypeTransfer); n != 0 {
		t.Errorf("transfer movements = %d, want 0", n)
	}
}

func TestRecordTransfer_InputGuards(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)

	_, err := stockService.RecordTransfer(db, stockService.TransferInput{
		ProductID:       widget.EntityID,
		FromWarehouseID: wh.EntityID,
		ToWarehouseID:   wh.EntityID,
		Quantity:        5,
		InitiatedBy:     "mover",
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("same warehouse err = %v, want ErrValidation", err)
	}

	_, err = stockService.RecordTransfer(db, stockService.TransferInput{
		ProductID:       widget.EntityID,
		FromWarehouseID: wh.EntityID,
		ToWarehouseID:   wh.EntityID + 1,
		Quantity:        5,
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("missing identity err = %v, want ErrValidation", err)
	}
}
