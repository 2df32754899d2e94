package document

import (
	"sync"

	"gorm.io/gorm"

	documentEntity "stockmaster.GO/model/entity/document"
)

type DocumentRepository struct {
	db *gorm.DB
}

var instances sync.Map

// GetDocumentRepository returns a singleton repository per DB handle.
func GetDocumentRepository(db *gorm.DB) *DocumentRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*DocumentRepository)
	}
	repo := NewDocumentRepository(db)
	actual, _ := instances.LoadOrStore(db, repo)
	return actual.(*DocumentRepository)
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) FindReceipts(status string) ([]documentEntity.Receipt, error) {
	q := r.db.Preload("Items").Order("entity_id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var receipts []documentEntity.Receipt
	err := q.Find(&receipts).Error
	return receipts, err
}

func (r *DocumentRepository) FindReceiptByID(id uint) (*documentEntity.Receipt, error) {
	var receipt documentEntity.Receipt
	if err := r.db.Preload("Items").First(&receipt, id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *DocumentRepository) FindDeliveryOrders(status string) ([]documentEntity.DeliveryOrder, error) {
	q := r.db.Preload("Items").Order("entity_id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []documentEntity.DeliveryOrder
	err := q.Find(&orders).Error
	return orders, err
}

func (r *DocumentRepository) FindDeliveryOrderByID(id uint) (*documentEntity.DeliveryOrder, error) {
	var order documentEntity.DeliveryOrder
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
