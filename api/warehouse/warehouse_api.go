package warehouse

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	warehouseEntity "stockmaster.GO/model/entity/warehouse"
	warehouseRepo "stockmaster.GO/model/repository/warehouse"
)

func init() {
	api.RegisterModule(RegisterWarehouseRoutes)
}

type warehouseInput struct {
	Name      string `json:"name" validate:"required,max=128"`
	Location  string `json:"location"`
	Capacity  int64  `json:"capacity" validate:"gte=0"`
	ManagerID *uint  `json:"manager_id"`
}

func RegisterWarehouseRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/warehouses")
	repo := warehouseRepo.GetWarehouseRepository(db)

	g.GET("", func(c echo.Context) error {
		warehouses, err := repo.FindAll()
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, warehouses)
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		w, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, w)
	})

	// Occupancy with the denormalized per-product breakdown expanded.
	g.GET("/:id/occupancy", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		w, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		free := w.Capacity - w.CurrentOccupancy
		if w.Capacity == 0 {
			free = 0
		}
		return c.JSON(http.StatusOK, echo.Map{
			"warehouse_id":      w.EntityID,
			"capacity":          w.Capacity,
			"current_occupancy": w.CurrentOccupancy,
			"free":              free,
			"breakdown":         w.StockBreakdown.Data(),
		})
	})

	g.POST("", func(c echo.Context) error {
		var body warehouseInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		w := warehouseEntity.Warehouse{
			Name:      body.Name,
			Location:  body.Location,
			Capacity:  body.Capacity,
			ManagerID: body.ManagerID,
		}
		if err := repo.Create(&w); err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, w)
	})

	g.PUT("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		w, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		var body warehouseInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		w.Name = body.Name
		w.Location = body.Location
		w.Capacity = body.Capacity
		if body.ManagerID != nil {
			w.ManagerID = body.ManagerID
		}
		if err := repo.Update(w); err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, w)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		w, err := repo.FindByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if w.CurrentOccupancy > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "warehouse still holds stock", "code": "inventory_referenced"})
		}
		if err := repo.Delete(id); err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
