package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	"stockmaster.GO/core/cache"
	productEntity "stockmaster.GO/model/entity/product"
	inventoryRepo "stockmaster.GO/model/repository/inventory"
	productRepo "stockmaster.GO/model/repository/product"
)

func init() {
	api.RegisterModule(RegisterProductRoutes)
}

type productInput struct {
	Name              string `json:"name" validate:"required,max=128"`
	WarehouseID       uint   `json:"warehouse_id" validate:"required"`
	MinStockLevel     int64  `json:"min_stock_level" validate:"gte=0"`
	IsPerishable      bool   `json:"is_perishable"`
	DefaultExpiryDays int    `json:"default_expiry_days" validate:"gte=0"`
	Unit              string `json:"unit"`
}

func RegisterProductRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")
	repo := productRepo.GetProductRepository(db)

	g.GET("", func(c echo.Context) error {
		const cacheKey = "products:all"
		if cached, ok := cache.GetInstance().Get(cacheKey); ok {
			return c.JSON(http.StatusOK, cached)
		}
		products, err := repo.FindAll()
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().Set(cacheKey, products, 60, []string{cache.TagStock})
		return c.JSON(http.StatusOK, products)
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		p, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	g.POST("", func(c echo.Context) error {
		var body productInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		// Product names are unique ignoring case.
		if existing, err := repo.FindByName(body.Name); err == nil && existing != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product name already in use", "code": "duplicate_name"})
		}
		p := productEntity.Product{
			Name:              body.Name,
			WarehouseID:       body.WarehouseID,
			MinStockLevel:     body.MinStockLevel,
			IsPerishable:      body.IsPerishable,
			DefaultExpiryDays: body.DefaultExpiryDays,
			Unit:              body.Unit,
		}
		if p.Unit == "" {
			p.Unit = "pcs"
		}
		if err := repo.Create(&p); err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.JSON(http.StatusCreated, p)
	})

	g.PUT("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		p, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		var body productInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		if existing, err := repo.FindByName(body.Name); err == nil && existing != nil && existing.EntityID != p.EntityID {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product name already in use", "code": "duplicate_name"})
		}
		p.Name = body.Name
		p.WarehouseID = body.WarehouseID
		p.MinStockLevel = body.MinStockLevel
		p.IsPerishable = body.IsPerishable
		p.DefaultExpiryDays = body.DefaultExpiryDays
		if body.Unit != "" {
			p.Unit = body.Unit
		}
		if err := repo.Update(p); err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.JSON(http.StatusOK, p)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		if _, err := repo.FindByID(id); err != nil {
			return api.ErrorJSON(c, err)
		}
		iRepo, err := inventoryRepo.GetInventoryRepository(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		// Deleting a product with stock on hand would orphan inventory rows.
		count, err := iRepo.CountNonZeroByProduct(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product still has inventory on hand", "code": "inventory_referenced"})
		}
		if err := repo.Delete(id); err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.NoContent(http.StatusNoContent)
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
