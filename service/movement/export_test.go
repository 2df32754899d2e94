package movement_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	movementEntity "stockmaster.GO/model/entity/movement"
	productEntity "stockmaster.GO/model/entity/product"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	movementRepo "stockmaster.GO/model/repository/movement"
	movementService "stockmaster.GO/service/movement"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("movement_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
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
		&movementEntity.Movement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestExport_ResolvesNamesAndDirections(t *testing.T) {
	db := newTestDB(t)
	src := warehouseEntity.Warehouse{Name: "North"}
	dst := warehouseEntity.Warehouse{Name: "South"}
	if err := db.Create(&src).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&dst).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := productEntity.Product{Name: "Widget", WarehouseID: src.EntityID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := movementEntity.Movement{
		ID:              uuid.NewString(),
		Type:            movementEntity.TypeTransfer,
		ProductID:       p.EntityID,
		FromWarehouseID: &src.EntityID,
		ToWarehouseID:   &dst.EntityID,
		FromLocation:    "Aisle 1",
		Quantity:        7,
		InitiatedBy:     "mover",
		Status:          movementEntity.StatusCompleted,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed movement: %v", err)
	}

	records, err := movementService.Export(db, movementRepo.Filter{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.Product != "Widget" {
		t.Errorf("product = %q, want Widget", r.Product)
	}
	if r.From != "North / Aisle 1" {
		t.Errorf("from = %q, want North / Aisle 1", r.From)
	}
	if r.To != "South" {
		t.Errorf("to = %q, want South", r.To)
	}
	if r.Quantity != 7 || r.InitiatedBy != "mover" || r.Status != movementEntity.StatusCompleted {
		t.Errorf("record = %+v", r)
	}

	row := r.CSVRow()
	header := movementService.CSVHeader()
	if len(row) != len(header) {
		t.Errorf("csv row has %d fields, header %d", len(row), len(header))
	}
	if row[2] != "Widget" || row[5] != "7" {
		t.Errorf("csv row = %v", row)
	}
}

func TestExport_AppliesFilter(t *testing.T) {
	db := newTestDB(t)
	wh := warehouseEntity.Warehouse{Name: "Main"}
	if err := db.Create(&wh).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := productEntity.Product{Name: "Widget", WarehouseID: wh.EntityID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, typ := range []string{movementEntity.TypeIncoming, movementEntity.TypeOutgoing} {
		m := movementEntity.Movement{
			ID:          uuid.NewString(),
			Type:        typ,
			ProductID:   p.EntityID,
			Quantity:    1,
			InitiatedBy: "tester",
			Status:      movementEntity.StatusCompleted,
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed movement: %v", err)
		}
	}

	records, err := movementService.Export(db, movementRepo.Filter{Type: movementEntity.TypeIncoming})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Type != movementEntity.TypeIncoming {
		t.Errorf("type = %q, want Incoming", records[0].Type)
	}
}

func TestSearchService_DisabledWithoutConfig(t *testing.T) {
	os.Unsetenv("ELASTICSEARCH_HOST")
	s := movementService.NewSearchService()
	if s.Enabled() {
		t.Skip("elasticsearch configured in environment")
	}
	// Indexing degrades to a no-op; search reports not configured.
	if err := s.IndexMovements([]movementEntity.Movement{{ID: "x"}}); err != nil {
		t.Errorf("IndexMovements = %v, want nil", err)
	}
	if _, err := s.Search(context.Background(), "anything", 0, 0); err == nil {
		t.Error("Search should fail when not configured")
	}
}
