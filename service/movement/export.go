package movement

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	movementRepo "stockmaster.GO/model/repository/movement"
	productRepo "stockmaster.GO/model/repository/product"
	warehouseRepo "stockmaster.GO/model/repository/warehouse"
)

// ExportRecord is a flat ledger line with names resolved, suitable for CSV
// or report output.
type ExportRecord struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Product     string `json:"product"`
	From        string `json:"from"`
	To          string `json:"to"`
	Quantity    int64  `json:"quantity"`
	InitiatedBy string `json:"initiated_by"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Export resolves movement rows into flat records, newest first.
func Export(db *gorm.DB, filter movementRepo.Filter) ([]ExportRecord, error) {
	movements, err := movementRepo.GetMovementRepository(db).List(filter)
	if err != nil {
		return nil, err
	}

	products := map[uint]string{}
	warehouses := map[uint]string{}
	pRepo := productRepo.GetProductRepository(db)
	wRepo := warehouseRepo.GetWarehouseRepository(db)

	productName := func(id uint) string {
		if name, ok := products[id]; ok {
			return name
		}
		name := "#" + strconv.FormatUint(uint64(id), 10)
		if p, err := pRepo.FindByID(id); err == nil {
			name = p.Name
		}
		products[id] = name
		return name
	}
	warehouseName := func(id *uint, location string) string {
		if id == nil {
			return ""
		}
		name, ok := warehouses[*id]
		if !ok {
			name = "#" + strconv.FormatUint(uint64(*id), 10)
			if w, err := wRepo.FindByID(*id); err == nil {
				name = w.Name
			}
			warehouses[*id] = name
		}
		if location != "" {
			return name + " / " + location
		}
		return name
	}

	records := make([]ExportRecord, 0, len(movements))
	for _, m := range movements {
		records = append(records, ExportRecord{
			ID:          m.ID,
			Type:        m.Type,
			Product:     productName(m.ProductID),
			From:        warehouseName(m.FromWarehouseID, m.FromLocation),
			To:          warehouseName(m.ToWarehouseID, m.ToLocation),
			Quantity:    m.Quantity,
			InitiatedBy: m.InitiatedBy,
			Status:      m.Status,
			Notes:       m.Notes,
			CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return records, nil
}

// CSVHeader matches the field order of CSVRow.
func CSVHeader() []string {
	return []string{"id", "type", "product", "from", "to", "quantity", "initiated_by", "status", "notes", "created_at"}
}

// CSVRow renders one record in CSVHeader order.
func (r ExportRecord) CSVRow() []string {
	return []string{
		r.ID, r.Type, r.Product, r.From, r.To,
		strconv.FormatInt(r.Quantity, 10),
		r.InitiatedBy, r.Status, r.Notes, r.CreatedAt,
	}
}
