package stock_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	alertEntity "stockmaster.GO/model/entity/alert"
	documentEntity "stockmaster.GO/model/entity/document"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
	movementEntity "stockmaster.GO/model/entity/movement"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	stockService "stockmaster.GO/service/stock"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("stock_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&warehouseEntity.Warehouse{},
		&productEntity.Product{},
		&inventoryEntity.Inventory{},
		&movementEntity.Movement{},
		&documentEntity.Receipt{},
		&documentEntity.ReceiptItem{},
		&documentEntity.DeliveryOrder{},
		&documentEntity.DeliveryOrderItem{},
		&alertEntity.Alert{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string, capacity int64) *warehouseEntity.Warehouse {
	t.Helper()
	w := warehouseEntity.Warehouse{Name: name, Capacity: capacity}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	return &w
}

func seedProduct(t *testing.T, db *gorm.DB, name string, homeWarehouse uint) *productEntity.Product {
	t.Helper()
	p := productEntity.Product{Name: name, WarehouseID: homeWarehouse}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &p
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *productEntity.Product {
	t.Helper()
	var p productEntity.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return &p
}

func reloadWarehouse(t *testing.T, db *gorm.DB, id uint) *warehouseEntity.Warehouse {
	t.Helper()
	var w warehouseEntity.Warehouse
	if err := db.First(&w, id).Error; err != nil {
		t.Fatalf("reload warehouse: %v", err)
	}
	return &w
}

func countMovements(t *testing.T, db *gorm.DB, movementType string) int64 {
	t.Helper()
	var n int64
	q := db.Model(&movementEntity.Movement{})
	if movementType != "" {
		q = q.Where("type = ?", movementType)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	return n
}

func TestValidateReceipt_AppliesAllEffects(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 1000)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	gadget := seedProduct(t, db, "Gadget", wh.EntityID)

	rec, err := stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   "RCPT-1",
		Supplier:    "Acme",
		WarehouseID: wh.EntityID,
		Items: []stockService.DocumentItemInput{
			{ProductID: widget.EntityID, Quantity: 40},
			{ProductID: gadget.EntityID, Quantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if rec.Status != documentEntity.StatusDraft {
		t.Fatalf("status = %q, want Draft", rec.Status)
	}

	validated, err := stockService.ValidateReceipt(db, rec.EntityID, "tester")
	if err != nil {
		t.Fatalf("ValidateReceipt: %v", err)
	}
	if validated.Status != documentEntity.StatusValidated {
		t.Errorf("status = %q, want Validated", validated.Status)
	}

	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 40 {
		t.Errorf("widget stock = %d, want 40", got)
	}
	if got := reloadProduct(t, db, gadget.EntityID).Stock; got != 10 {
		t.Errorf("gadget stock = %d, want 10", got)
	}

	var row inventoryEntity.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", widget.EntityID, wh.EntityID).First(&row).Error; err != nil {
		t.Fatalf("inventory row: %v", err)
	}
	if row.Location != inventoryEntity.DefaultLocation {
		t.Errorf("location = %q, want %q", row.Location, inventoryEntity.DefaultLocation)
	}
	if row.Quantity != 40 {
		t.Errorf("inventory quantity = %d, want 40", row.Quantity)
	}

	after := reloadWarehouse(t, db, wh.EntityID)
	if after.CurrentOccupancy != 50 {
		t.Errorf("occupancy = %d, want 50", after.CurrentOccupancy)
	}
	if got := after.BreakdownQty(widget.EntityID); got != 40 {
		t.Errorf("breakdown widget = %d, want 40", got)
	}

	if n := countMovements(t, db, movementEntity.TypeIncoming); n != 2 {
		t.Errorf("incoming movements = %d, want 2", n)
	}

	// Re-validation must be rejected with no further effect.
	if _, err := stockService.ValidateReceipt(db, rec.EntityID, "tester"); !errors.Is(err, stockService.ErrAlreadyValidated) {
		t.Errorf("second validate err = %v, want ErrAlreadyValidated", err)
	}
	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 40 {
		t.Errorf("stock after re-validate = %d, want 40", got)
	}
}

func TestValidateReceipt_RequiresIdentity(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	p := seedProduct(t, db, "Widget", wh.EntityID)
	rec, err := stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   "RCPT-2",
		WarehouseID: wh.EntityID,
		Items:       []stockService.DocumentItemInput{{ProductID: p.EntityID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if _, err := stockService.ValidateReceipt(db, rec.EntityID, "  "); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCreateReceipt_UnknownRefsRejected(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	p := seedProduct(t, db, "Widget", wh.EntityID)

	_, err := stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   "RCPT-3",
		WarehouseID: 9999,
		Items:       []stockService.DocumentItemInput{{ProductID: p.EntityID, Quantity: 5}},
	})
	if !errors.Is(err, stockService.ErrNotFound) {
		t.Errorf("unknown warehouse err = %v, want ErrNotFound", err)
	}

	_, err = stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   "RCPT-4",
		WarehouseID: wh.EntityID,
		Items:       []stockService.DocumentItemInput{{ProductID: 9999, Quantity: 5}},
	})
	if !errors.Is(err, stockService.ErrNotFound) {
		t.Errorf("unknown product err = %v, want ErrNotFound", err)
	}
}

func TestValidateDeliveryOrder_InsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	gadget := seedProduct(t, db, "Gadget", wh.EntityID)

	receive(t, db, wh.EntityID, widget.EntityID, 30)
	receive(t, db, wh.EntityID, gadget.EntityID, 5)

	do, err := stockService.CreateDeliveryOrder(db, stockService.DeliveryOrderInput{
		Reference:   "DO-1",
		Customer:    "Globex",
		WarehouseID: wh.EntityID,
		Items: []stockService.DocumentItemInput{
			{ProductID: widget.EntityID, Quantity: 10},
			{ProductID: gadget.EntityID, Quantity: 8}, // only 5 on hand
		},
	})
	if err != nil {
		t.Fatalf("CreateDeliveryOrder: %v", err)
	}

	_, err = stockService.ValidateDeliveryOrder(db, do.EntityID, "tester")
	if !errors.Is(err, stockService.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	var detail *stockService.InsufficientStockError
	if !errors.As(err, &detail) {
		t.Fatalf("err %T does not carry detail", err)
	}
	if detail.ProductID != gadget.EntityID || detail.Requested != 8 || detail.Available != 5 {
		t.Errorf("detail = %+v, want product %d requested 8 available 5", detail, gadget.EntityID)
	}

	// The first line item must have been rolled back with the rest.
	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 30 {
		t.Errorf("widget stock = %d, want 30 (rollback)", got)
	}
	if got := reloadWarehouse(t, db, wh.EntityID).CurrentOccupancy; got != 35 {
		t.Errorf("occupancy = %d, want 35 (rollback)", got)
	}
	if n := countMovements(t, db, movementEntity.TypeOutgoing); n != 0 {
		t.Errorf("outgoing movements = %d, want 0", n)
	}

	var after documentEntity.DeliveryOrder
	if err := db.First(&after, do.EntityID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.Status != documentEntity.StatusDraft {
		t.Errorf("status = %q, want Draft", after.Status)
	}
}

func TestValidateDeliveryOrder_Succeeds(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	receive(t, db, wh.EntityID, widget.EntityID, 30)

	do, err := stockService.CreateDeliveryOrder(db, stockService.DeliveryOrderInput{
		Reference:   "DO-2",
		WarehouseID: wh.EntityID,
		Items:       []stockService.DocumentItemInput{{ProductID: widget.EntityID, Quantity: 12}},
	})
	if err != nil {
		t.Fatalf("CreateDeliveryOrder: %v", err)
	}
	if _, err := stockService.ValidateDeliveryOrder(db, do.EntityID, "tester"); err != nil {
		t.Fatalf("ValidateDeliveryOrder: %v", err)
	}

	if got := reloadProduct(t, db, widget.EntityID).Stock; got != 18 {
		t.Errorf("stock = %d, want 18", got)
	}
	if got := reloadWarehouse(t, db, wh.EntityID).CurrentOccupancy; got != 18 {
		t.Errorf("occupancy = %d, want 18", got)
	}
	if n := countMovements(t, db, movementEntity.TypeOutgoing); n != 1 {
		t.Errorf("outgoing movements = %d, want 1", n)
	}

	var m movementEntity.Movement
	if err := db.Where("type = ?", movementEntity.TypeOutgoing).First(&m).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if m.InitiatedBy != "tester" {
		t.Errorf("initiated_by = %q, want tester", m.InitiatedBy)
	}
	if m.FromWarehouseID == nil || *m.FromWarehouseID != wh.EntityID {
		t.Errorf("from_warehouse = %v, want %d", m.FromWarehouseID, wh.EntityID)
	}
}

func TestUpdateDeliveryOrderStatus_Transitions(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	widget := seedProduct(t, db, "Widget", wh.EntityID)
	receive(t, db, wh.EntityID, widget.EntityID, 10)

	do, err := stockService.CreateDeliveryOrder(db, stockService.DeliveryOrderInput{
		Reference:   "DO-3",
		WarehouseID: wh.EntityID,
		Items:       []stockService.DocumentItemInput{{ProductID: widget.EntityID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateDeliveryOrder: %v", err)
	}

	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, "Shipped"); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("unknown status err = %v, want ErrValidation", err)
	}
	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, documentEntity.StatusValidated); !errors.Is(err, stockService.ErrValidation) {
		t.Errorf("Validated via status update err = %v, want ErrValidation", err)
	}
	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, documentEntity.StatusPacked); !errors.Is(err, stockService.ErrInvalidTransition) {
		t.Errorf("Draft->Packed err = %v, want ErrInvalidTransition", err)
	}

	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, documentEntity.StatusPicked); err != nil {
		t.Fatalf("Draft->Picked: %v", err)
	}
	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, documentEntity.StatusPacked); err != nil {
		t.Fatalf("Picked->Packed: %v", err)
	}

	// Validation is accepted from Packed.
	if _, err := stockService.ValidateDeliveryOrder(db, do.EntityID, "tester"); err != nil {
		t.Fatalf("validate from Packed: %v", err)
	}

	// Terminal: no further transitions.
	if _, err := stockService.UpdateDeliveryOrderStatus(db, do.EntityID, documentEntity.StatusCancelled); !errors.Is(err, stockService.ErrAlreadyValidated) {
		t.Errorf("transition after Validated err = %v, want ErrAlreadyValidated", err)
	}
}

func TestCancelReceipt_Terminal(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "Main", 0)
	p := seedProduct(t, db, "Widget", wh.EntityID)
	rec, err := stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   "RCPT-5",
		WarehouseID: wh.EntityID,
		Items:       []stockService.DocumentItemInput{{ProductID: p.EntityID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if _, err := stockService.CancelReceipt(db, rec.EntityID); err != nil {
		t.Fatalf("CancelReceipt: %v", err)
	}
	if _, err := stockService.ValidateReceipt(db, rec.EntityID, "tester"); !errors.Is(err, stockService.ErrCancelled) {
		t.Errorf("validate cancelled err = %v, want ErrCancelled", err)
	}
	if got := reloadProduct(t, db, p.EntityID).Stock; got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

// receive seeds stock through the real document path so aggregates stay
// consistent.
func receive(t *testing.T, db *gorm.DB, warehouseID, productID uint, qty int64) {
	t.Helper()
	rec, err := stockService.CreateReceipt(db, stockService.ReceiptInput{
		Reference:   fmt.Sprintf("SEED-%d-%d", productID, time.Now().UnixNano()),
		WarehouseID: warehouseID,
		Items:       []stockService.DocumentItemInput{{ProductID: productID, Quantity: qty}},
	})
	if err != nil {
		t.Fatalf("seed receipt: %v", err)
	}
	if _, err := stockService.ValidateReceipt(db, rec.EntityID, "seeder"); err != nil {
		t.Fatalf("seed validate: %v", err)
	}
}
