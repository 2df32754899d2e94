package product

import (
	"sync"

	"gorm.io/gorm"

	productEntity "stockmaster.GO/model/entity/product"
)

type ProductRepository struct {
	db *gorm.DB
}

var (
	instances sync.Map // *gorm.DB -> *ProductRepository
)

// GetProductRepository returns a shared repository instance for the given DB.
func GetProductRepository(db *gorm.DB) *ProductRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*ProductRepository)
	}
	v, _ := instances.LoadOrStore(db, NewProductRepository(db))
	return v.(*ProductRepository)
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindAll() ([]productEntity.Product, error) {
	var products []productEntity.Product
	err := r.db.Order("entity_id").Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindByID(id uint) (*productEntity.Product, error) {
	var p productEntity.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByName matches the globally unique name case-insensitively.
func (r *ProductRepository) FindByName(name string) (*productEntity.Product, error) {
	var p productEntity.Product
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(p *productEntity.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *productEntity.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&productEntity.Product{}, id).Error
}

// FindWithMinStock returns products that declare a low-stock threshold.
func (r *ProductRepository) FindWithMinStock() ([]productEntity.Product, error) {
	var products []productEntity.Product
	err := r.db.Where("min_stock_level > 0").Order("entity_id").Find(&products).Error
	return products, err
}
