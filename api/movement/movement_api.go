package movement

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	movementRepo "stockmaster.GO/model/repository/movement"
	movementService "stockmaster.GO/service/movement"
	stockService "stockmaster.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterMovementRoutes)
}

func parseFilter(c echo.Context) (movementRepo.Filter, error) {
	var f movementRepo.Filter
	if v := c.QueryParam("product_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, err
		}
		f.ProductID = uint(id)
	}
	if v := c.QueryParam("warehouse_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, err
		}
		f.WarehouseID = uint(id)
	}
	f.Type = c.QueryParam("type")
	f.Status = c.QueryParam("status")
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return f, err
		}
		f.Limit = limit
	}
	return f, nil
}

func RegisterMovementRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/movements")
	repo := movementRepo.GetMovementRepository(db)

	g.GET("", func(c echo.Context) error {
		filter, err := parseFilter(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
		}
		movements, err := repo.List(filter)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, movements)
	})

	g.GET("/:id", func(c echo.Context) error {
		m, err := repo.FindByID(c.Param("id"))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, m)
	})

	// Flat record export for reporting; CSV by default, JSON on request.
	g.GET("/export", func(c echo.Context) error {
		filter, err := parseFilter(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
		}
		records, err := movementService.Export(db, filter)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if c.QueryParam("format") == "json" {
			return c.JSON(http.StatusOK, records)
		}
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="movements.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		w := csv.NewWriter(c.Response())
		if err := w.Write(movementService.CSVHeader()); err != nil {
			return err
		}
		for _, r := range records {
			if err := w.Write(r.CSVRow()); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})

	g.POST("/transfer", func(c echo.Context) error {
		var body stockService.TransferInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		body.InitiatedBy = api.Identity(c, body.InitiatedBy)
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		m, err := stockService.RecordTransfer(db, body)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, m)
	})

	g.GET("/search", func(c echo.Context) error {
		query := c.QueryParam("q")
		if query == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
		}
		pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
		page, _ := strconv.Atoi(c.QueryParam("page"))
		res, err := movementService.GetSearchService().Search(c.Request().Context(), query, pageSize, page)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"items":       res.Items,
			"total_count": res.TotalCount,
			"page_size":   res.PageSize,
			"page":        res.Page,
		})
	})
}
