package stock_test

import (
	"errors"
	"testing"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	stockService "stockmaster.GO/service/stock"
)

func TestAdjust_CreatesRowAndMirrorsAggregates(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)

	row, err := stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    25,
		Reason:      "initial count",
		InitiatedBy: "auditor",
	})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if row.Quantity != 25 {
		t.Errorf("row quantity = %d, want 25", row.Quantity)
	}
	if row.Location != inventoryEntity.DefaultLocation {
		t.Errorf("location = %q, want %q", row.Location, inventoryEntity.DefaultLocation)
	}
	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 25 {
		t.Errorf("product stock = %d, want 25", got)
	}
	if got := reloadWarehouse(t, db, wh.EntityID).CurrentOccupancy; got != 25 {
		t.Errorf("occupancy = %d, want 25", got)
	}

	var m movementEntity.Movement
	if err := db.Where("type = ?", movementEntity.TypeAdjustment).First(&m).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if m.Quantity != 25 || m.Notes != "initial count" || m.InitiatedBy != "auditor" {
		t.Errorf("movement = %+v", m)
	}
	if m.ToWarehouseID == nil || *m.ToWarehouseID != wh.EntityID {
		t.Errorf("positive adjustment should point at the warehouse, got %v", m.ToWarehouseID)
	}
}

func TestAdjust_NegativeGuards(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)

	// No row yet: a negative delta cannot create negative stock.
	_, err := stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    -5,
		Reason:      "shrinkage",
		InitiatedBy: "auditor",
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Fatalf("missing row err = %v, want ErrValidation", err)
	}

	receive(t, db, wh.EntityID, widget.EntityID, 10)

	_, err = stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    -11,
		Reason:      "shrinkage",
		InitiatedBy: "auditor",
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("below-zero err = %v, want ErrValidation", err)
	}

	// Quantity may not fall below the outstanding allocation.
	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 8); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	_, err = stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    -5,
		Reason:      "shrinkage",
		InitiatedBy: "auditor",
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("below-allocation err = %v, want ErrValidation", err)
	}

	// A delta that respects both floors is applied.
	if _, err := stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    -2,
		Reason:      "shrinkage",
		InitiatedBy: "auditor",
	}); err != nil {
		t.Fatalf("valid negative adjust: %v", err)
	}
	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}

	var m movementEntity.Movement
	if err := db.Where("type = ? AND from_warehouse_id IS NOT NULL", movementEntity.TypeAdjustment).First(&m).Error; err != nil {
		t.Fatalf("negative movement: %v", err)
	}
	if m.Quantity != 2 {
		t.Errorf("ledger quantity = %d, want positive magnitude 2", m.Quantity)
	}
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)

	_, err := stockService.Adjust(db, stockService.AdjustInput{
		ProductID:   widget.EntityID,
		WarehouseID: wh.EntityID,
		Quantity:    0,
		Reason:      "noop",
		InitiatedBy: "auditor",
	})
	if !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("zero delta err = %v, want ErrValidation", err)
	}
}
