package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	"stockmaster.GO/core/cache"
	inventoryEntity "stockmaster.GO/model/entity/inventory"
	inventoryRepo "stockmaster.GO/model/repository/inventory"
	stockService "stockmaster.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

type allocateInput struct {
	ProductID   uint  `json:"product_id" validate:"required"`
	WarehouseID uint  `json:"warehouse_id" validate:"required"`
	Quantity    int64 `json:"quantity" validate:"required,gt=0"`
}

type inventoryInput struct {
	ProductID         uint             `json:"product_id" validate:"required"`
	WarehouseID       uint             `json:"warehouse_id" validate:"required"`
	Location          string           `json:"location"`
	Quantity          int64            `json:"quantity" validate:"gte=0"`
	BatchNumber       string           `json:"batch_number"`
	ExpiryDate        *time.Time       `json:"expiry_date"`
	ManufacturingDate *time.Time       `json:"manufacturing_date"`
	Supplier          string           `json:"supplier"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	RetailPrice       *decimal.Decimal `json:"retail_price"`
	Currency          string           `json:"currency"`
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/inventory")

	g.GET("", func(c echo.Context) error {
		repo, err := inventoryRepo.GetInventoryRepository(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if pid := c.QueryParam("product_id"); pid != "" {
			productID, perr := strconv.ParseUint(pid, 10, 32)
			if perr != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product_id"})
			}
			var rows []inventoryEntity.Inventory
			if wid := c.QueryParam("warehouse_id"); wid != "" {
				warehouseID, werr := strconv.ParseUint(wid, 10, 32)
				if werr != nil {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse_id"})
				}
				rows, err = repo.FindByPair(uint(productID), uint(warehouseID))
			} else {
				rows, err = repo.FindByProduct(uint(productID))
			}
			if err != nil {
				return api.ErrorJSON(c, err)
			}
			return c.JSON(http.StatusOK, rows)
		}
		rows, err := repo.FindAll()
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, rows)
	})

	g.GET("/:id", func(c echo.Context) error {
		repo, err := inventoryRepo.GetInventoryRepository(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		row, err := repo.FindByID(uint(id))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, row)
	})

	// Direct inventory writes bypass the movement ledger; the reconciliation
	// sync is the documented recovery for the drift they cause. Adjust is the
	// ledgered path.
	g.POST("", func(c echo.Context) error {
		var body inventoryInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		row := inventoryEntity.Inventory{
			ProductID:         body.ProductID,
			WarehouseID:       body.WarehouseID,
			Location:          body.Location,
			Quantity:          body.Quantity,
			BatchNumber:       body.BatchNumber,
			ExpiryDate:        body.ExpiryDate,
			ManufacturingDate: body.ManufacturingDate,
			Supplier:          body.Supplier,
			Currency:          body.Currency,
		}
		if row.Location == "" {
			row.Location = inventoryEntity.DefaultLocation
		}
		if body.CostPrice != nil {
			row.CostPrice = *body.CostPrice
		}
		if body.RetailPrice != nil {
			row.RetailPrice = *body.RetailPrice
		}
		if err := db.Create(&row).Error; err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "duplicate_inventory"})
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.JSON(http.StatusCreated, row)
	})

	g.PUT("/:id", func(c echo.Context) error {
		repo, err := inventoryRepo.GetInventoryRepository(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		row, err := repo.FindByID(uint(id))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		var body inventoryInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Quantity < 0 || body.Quantity < row.AllocatedQuantity {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "quantity may not fall below the outstanding allocation",
				"code":  "validation",
			})
		}
		row.Quantity = body.Quantity
		row.BatchNumber = body.BatchNumber
		row.ExpiryDate = body.ExpiryDate
		row.ManufacturingDate = body.ManufacturingDate
		row.Supplier = body.Supplier
		if body.CostPrice != nil {
			row.CostPrice = *body.CostPrice
		}
		if body.RetailPrice != nil {
			row.RetailPrice = *body.RetailPrice
		}
		if body.Currency != "" {
			row.Currency = body.Currency
		}
		if err := db.Save(row).Error; err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.JSON(http.StatusOK, row)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		repo, err := inventoryRepo.GetInventoryRepository(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		row, err := repo.FindByID(uint(id))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if row.Quantity > 0 {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "inventory with on-hand quantity cannot be deleted",
				"code":  "stock_present",
			})
		}
		if err := db.Delete(row).Error; err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.NoContent(http.StatusNoContent)
	})

	g.POST("/adjust", func(c echo.Context) error {
		var body stockService.AdjustInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		body.InitiatedBy = api.Identity(c, body.InitiatedBy)
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		row, err := stockService.Adjust(db, body)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, row)
	})

	g.POST("/allocate", func(c echo.Context) error {
		var body allocateInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		if err := stockService.Allocate(db, body.ProductID, body.WarehouseID, body.Quantity); err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"allocated": body.Quantity})
	})

	g.POST("/release", func(c echo.Context) error {
		var body allocateInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		if err := stockService.Release(db, body.ProductID, body.WarehouseID, body.Quantity); err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"released": body.Quantity})
	})

	// Reconciliation. Without parameters it sweeps everything.
	g.POST("/sync", func(c echo.Context) error {
		if pid := c.QueryParam("product_id"); pid != "" {
			productID, err := strconv.ParseUint(pid, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product_id"})
			}
			res, err := stockService.SyncProductStock(db, uint(productID))
			if err != nil {
				return api.ErrorJSON(c, err)
			}
			return c.JSON(http.StatusOK, res)
		}
		if wid := c.QueryParam("warehouse_id"); wid != "" {
			warehouseID, err := strconv.ParseUint(wid, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse_id"})
			}
			res, err := stockService.SyncWarehouseOccupancy(db, uint(warehouseID))
			if err != nil {
				return api.ErrorJSON(c, err)
			}
			return c.JSON(http.StatusOK, res)
		}
		drifted, err := stockService.SyncAll(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagStock)
		return c.JSON(http.StatusOK, echo.Map{"drifted": drifted})
	})
}
