package document

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	documentRepo "stockmaster.GO/model/repository/document"
	stockService "stockmaster.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterDocumentRoutes)
}

type validateInput struct {
	InitiatedBy string `json:"initiated_by"`
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

func RegisterDocumentRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo := documentRepo.GetDocumentRepository(db)

	receipts := apiGroup.Group("/receipts")

	receipts.GET("", func(c echo.Context) error {
		list, err := repo.FindReceipts(c.QueryParam("status"))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	receipts.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		receipt, err := repo.FindReceiptByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, receipt)
	})

	receipts.POST("", func(c echo.Context) error {
		var body stockService.ReceiptInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		receipt, err := stockService.CreateReceipt(db, body)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, receipt)
	})

	receipts.POST("/:id/validate", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body validateInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		initiatedBy := api.Identity(c, body.InitiatedBy)
		if initiatedBy == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "initiated_by is required", "code": "validation"})
		}
		receipt, err := stockService.ValidateReceipt(db, id, initiatedBy)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, receipt)
	})

	receipts.POST("/:id/cancel", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		receipt, err := stockService.CancelReceipt(db, id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, receipt)
	})

	orders := apiGroup.Group("/delivery-orders")

	orders.GET("", func(c echo.Context) error {
		list, err := repo.FindDeliveryOrders(c.QueryParam("status"))
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	orders.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		order, err := repo.FindDeliveryOrderByID(id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	orders.POST("", func(c echo.Context) error {
		var body stockService.DeliveryOrderInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		order, err := stockService.CreateDeliveryOrder(db, body)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, order)
	})

	orders.PUT("/:id/status", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body statusInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		order, err := stockService.UpdateDeliveryOrderStatus(db, id, body.Status)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	orders.POST("/:id/validate", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body validateInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		initiatedBy := api.Identity(c, body.InitiatedBy)
		if initiatedBy == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "initiated_by is required", "code": "validation"})
		}
		order, err := stockService.ValidateDeliveryOrder(db, id, initiatedBy)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
