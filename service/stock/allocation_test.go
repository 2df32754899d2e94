package stock_test

import (
	"errors"
	"testing"

	inventoryEntity "stockmaster.GO/model/entity/inventory"
	stockService "stockmaster.GO/service/stock"
)

func TestAllocate_Release_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	receive(t, db, wh.EntityID, widget.EntityID, 20)

	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 15); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	var row inventoryEntity.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", widget.EntityID, wh.EntityID).First(&row).Error; err != nil {
		t.Fatalf("row: %v", err)
	}
	if row.AllocatedQuantity != 15 {
		t.Errorf("allocated = %d, want 15", row.AllocatedQuantity)
	}
	if row.Available() != 5 {
		t.Errorf("available = %d, want 5", row.Available())
	}

	// Exactly the remaining headroom succeeds; one more does not.
	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 5); err != nil {
		t.Fatalf("boundary allocate: %v", err)
	}
	err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 1)
	if !errors.Is(err, stockService.ErrInsufficientStock) {
		t.Fatalf("over-allocate err = %v, want ErrInsufficientStock", err)
	}
	var detail *stockService.InsufficientStockError
	if errors.As(err, &detail) {
		if detail.Available != 0 {
			t.Errorf("detail available = %d, want 0", detail.Available)
		}
	} else {
		t.Error("over-allocate error carries no detail")
	}

	if err := stockService.Release(db, widget.EntityID, wh.EntityID, 20); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := db.Where("entity_id = ?", row.EntityID).First(&row).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.AllocatedQuantity != 0 {
		t.Errorf("allocated after release = %d, want 0", row.AllocatedQuantity)
	}
}

func TestRelease_OverAllocatedRejected(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	receive(t, db, wh.EntityID, widget.EntityID, 10)

	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 4); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := stockService.Release(db, widget.EntityID, wh.EntityID, 5); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("over-release err = %v, want ErrValidation", err)
	}

	var row inventoryEntity.Inventory
	if err := db.Where("product_id = ?", widget.EntityID).First(&row).Error; err != nil {
		t.Fatalf("row: %v", err)
	}
	if row.AllocatedQuantity != 4 {
		t.Errorf("allocated = %d, want 4 (unchanged)", row.AllocatedQuantity)
	}
}

func TestAllocate_InputGuards(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)

	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 0); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("zero qty err = %v, want ErrValidation", err)
	}
	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, -3); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("negative qty err = %v, want ErrValidation", err)
	}
	// No inventory row at all for the pair.
	if err := stockService.Allocate(db, widget.EntityID, wh.EntityID, 1); !errors.Is(err, stockService.ErrNotFound) {
		t.Errorf("missing pair err = %v, want ErrNotFound", err)
	}
}
