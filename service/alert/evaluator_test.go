package alert_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	alertEntity "stockmaster.GO/model/entity/alert"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	alertService "stockmaster.GO/service/alert"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("alert_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&warehouseEntity.Warehouse{},
		&productEntity.Product{},
		&inventoryEntity.Inventory{},
		&alertEntity.Alert{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func countAlerts(t *testing.T, db *gorm.DB, alertType string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&alertEntity.Alert{}).Where("type = ?", alertType).Count(&n).Error; err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	return n
}

func TestCheck_LowStockAgainstHomeWarehouse(t *testing.T) {
	db := newTestDB(t)
	home := warehouseEntity.Warehouse{Name: "Home"}
	other := warehouseEntity.Warehouse{Name: "Other"}
	seed(t, db, &home)
	seed(t, db, &other)

	p := productEntity.Product{Name: "Widget", WarehouseID: home.EntityID, MinStockLevel: 10, Stock: 30}
	seed(t, db, &p)
	// Plenty elsewhere, short at home.
	seed(t, db, &inventoryEntity.Inventory{ProductID: p.EntityID, WarehouseID: home.EntityID, Location: "A", Quantity: 4})
	seed(t, db, &inventoryEntity.Inventory{ProductID: p.EntityID, WarehouseID: other.EntityID, Location: "A", Quantity: 26})

	created, err := alertService.Check(db)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	var low []alertEntity.Alert
	for _, a := range created {
		if a.Type == alertEntity.TypeLowStock {
			low = append(low, a)
		}
	}
	if len(low) != 1 {
		t.Fatalf("low-stock alerts = %d, want 1", len(low))
	}
	if low[0].Threshold != 10 || low[0].CurrentValue != 4 {
		t.Errorf("alert = threshold %d current %d, want 10/4", low[0].Threshold, low[0].CurrentValue)
	}

	// An open alert suppresses a duplicate on the next sweep.
	if _, err := alertService.Check(db); err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if n := countAlerts(t, db, alertEntity.TypeLowStock); n != 1 {
		t.Errorf("low-stock alerts after second sweep = %d, want 1", n)
	}

	// Resolving reopens the key for a fresh alert.
	var existing alertEntity.Alert
	if err := db.Where("type = ?", alertEntity.TypeLowStock).First(&existing).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}
	if _, err := alertService.Resolve(db, existing.EntityID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := alertService.Check(db); err != nil {
		t.Fatalf("third Check: %v", err)
	}
	if n := countAlerts(t, db, alertEntity.TypeLowStock); n != 2 {
		t.Errorf("low-stock alerts after resolve+sweep = %d, want 2", n)
	}
}

func TestCheck_StockoutDiscrepancy(t *testing.T) {
	db := newTestDB(t)
	wh := warehouseEntity.Warehouse{Name: "Main"}
	seed(t, db, &wh)
	p := productEntity.Product{Name: "Widget", WarehouseID: wh.EntityID}
	seed(t, db, &p)
	seed(t, db, &inventoryEntity.Inventory{ProductID: p.EntityID, WarehouseID: wh.EntityID, Location: "A", Quantity: 0})

	created, err := alertService.Check(db)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	found := false
	for _, a := range created {
		if a.Type == alertEntity.TypeDiscrepancy && a.ProductID != nil && *a.ProductID == p.EntityID {
			found = true
		}
	}
	if !found {
		t.Error("no stockout discrepancy alert created")
	}
}

func TestCheck_ExpiryWindows(t *testing.T) {
	db := newTestDB(t)
	wh := warehouseEntity.Warehouse{Name: "Main"}
	seed(t, db, &wh)
	soon := productEntity.Product{Name: "Milk", WarehouseID: wh.EntityID}
	expired := productEntity.Product{Name: "Yogurt", WarehouseID: wh.EntityID}
	fine := productEntity.Product{Name: "Honey", WarehouseID: wh.EntityID}
	seed(t, db, &soon)
	seed(t, db, &expired)
	seed(t, db, &fine)

	in3 := time.Now().AddDate(0, 0, 3)
	past := time.Now().AddDate(0, 0, -1)
	in90 := time.Now().AddDate(0, 0, 90)
	seed(t, db, &inventoryEntity.Inventory{ProductID: soon.EntityID, WarehouseID: wh.EntityID, Location: "A", Quantity: 5, BatchNumber: "B1", ExpiryDate: &in3})
	seed(t, db, &inventoryEntity.Inventory{ProductID: expired.EntityID, WarehouseID: wh.EntityID, Location: "A", Quantity: 5, BatchNumber: "B2", ExpiryDate: &past})
	seed(t, db, &inventoryEntity.Inventory{ProductID: fine.EntityID, WarehouseID: wh.EntityID, Location: "A", Quantity: 5, BatchNumber: "B3", ExpiryDate: &in90})

	created, err := alertService.Check(db)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	got := map[uint]bool{}
	for _, a := range created {
		if a.Type == alertEntity.TypeExpiry && a.ProductID != nil {
			got[*a.ProductID] = true
		}
	}
	if !got[soon.EntityID] {
		t.Error("no alert for batch expiring within the window")
	}
	if !got[expired.EntityID] {
		t.Error("no alert for already expired batch")
	}
	if got[fine.EntityID] {
		t.Error("alert raised for batch far from expiry")
	}

	// Dedup keys on (expiry, product): a second expiring batch of the same
	// product is suppressed while the first alert is open.
	in5 := time.Now().AddDate(0, 0, 5)
	seed(t, db, &inventoryEntity.Inventory{ProductID: soon.EntityID, WarehouseID: wh.EntityID, Location: "B", Quantity: 5, BatchNumber: "B4", ExpiryDate: &in5})
	if _, err := alertService.Check(db); err != nil {
		t.Fatalf("second Check: %v", err)
	}
	var n int64
	db.Model(&alertEntity.Alert{}).
		Where("type = ? AND product_id = ?", alertEntity.TypeExpiry, soon.EntityID).Count(&n)
	if n != 1 {
		t.Errorf("expiry alerts for product = %d, want 1", n)
	}
}

func TestCheck_OverCapacity(t *testing.T) {
	db := newTestDB(t)
	wh := warehouseEntity.Warehouse{Name: "Cramped", Capacity: 100, CurrentOccupancy: 120}
	seed(t, db, &wh)
	roomy := warehouseEntity.Warehouse{Name: "Roomy", Capacity: 100, CurrentOccupancy: 80}
	seed(t, db, &roomy)

	created, err := alertService.Check(db)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var hits []alertEntity.Alert
	for _, a := range created {
		if a.Type == alertEntity.TypeDiscrepancy && a.WarehouseID != nil {
			hits = append(hits, a)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("over-capacity alerts = %d, want 1", len(hits))
	}
	if *hits[0].WarehouseID != wh.EntityID {
		t.Errorf("alert warehouse = %d, want %d", *hits[0].WarehouseID, wh.EntityID)
	}
	if hits[0].Threshold != 100 || hits[0].CurrentValue != 120 {
		t.Errorf("alert = threshold %d current %d, want 100/120", hits[0].Threshold, hits[0].CurrentValue)
	}
}

func TestAcknowledgeResolve_Idempotent(t *testing.T) {
	db := newTestDB(t)
	wh := warehouseEntity.Warehouse{Name: "Main"}
	seed(t, db, &wh)
	wid := wh.EntityID
	a, err := alertService.Create(db, alertService.CreateInput{
		Type:        alertEntity.TypeDiscrepancy,
		WarehouseID: &wid,
		Notes:       "manual",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	acked, err := alertService.Acknowledge(db, a.EntityID)
	if err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if acked.Status != alertEntity.StatusAcknowledged || acked.AcknowledgedAt == nil {
		t.Errorf("acked = %+v", acked)
	}
	// Second acknowledge is a no-op beyond the timestamp.
	if _, err := alertService.Acknowledge(db, a.EntityID); err != nil {
		t.Fatalf("re-Acknowledge: %v", err)
	}

	resolved, err := alertService.Resolve(db, a.EntityID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != alertEntity.StatusResolved || resolved.ResolvedAt == nil {
		t.Errorf("resolved = %+v", resolved)
	}
	if _, err := alertService.Resolve(db, a.EntityID); err != nil {
		t.Fatalf("re-Resolve: %v", err)
	}
}

func TestCreate_RequiresReference(t *testing.T) {
	db := newTestDB(t)
	if _, err := alertService.Create(db, alertService.CreateInput{Type: alertEntity.TypeLowStock}); err == nil {
		t.Error("expected error for alert without product or warehouse")
	}
}
