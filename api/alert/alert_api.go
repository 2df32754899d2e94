package alert

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	"stockmaster.GO/core/cache"
	alertRepo "stockmaster.GO/model/repository/alert"
	alertService "stockmaster.GO/service/alert"
)

func init() {
	api.RegisterModule(RegisterAlertRoutes)
}

func RegisterAlertRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/alerts")
	repo := alertRepo.GetAlertRepository(db)

	g.GET("", func(c echo.Context) error {
		status := c.QueryParam("status")
		cacheKey := "alerts:" + status
		if cached, ok := cache.GetInstance().Get(cacheKey); ok {
			return c.JSON(http.StatusOK, cached)
		}
		alerts, err := repo.FindAll(status)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().Set(cacheKey, alerts, 30, []string{cache.TagAlerts})
		return c.JSON(http.StatusOK, alerts)
	})

	g.POST("", func(c echo.Context) error {
		var body alertService.CreateInput
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&body); err != nil {
			return api.ErrorJSON(c, err)
		}
		a, err := alertService.Create(db, body)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagAlerts)
		return c.JSON(http.StatusCreated, a)
	})

	// Runs the evaluator sweep and returns only what it created.
	g.POST("/check", func(c echo.Context) error {
		created, err := alertService.Check(db)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		if len(created) > 0 {
			cache.GetInstance().DeleteByTag(cache.TagAlerts)
		}
		return c.JSON(http.StatusOK, echo.Map{"created": created, "count": len(created)})
	})

	g.POST("/:id/acknowledge", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		a, err := alertService.Acknowledge(db, id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagAlerts)
		return c.JSON(http.StatusOK, a)
	})

	g.POST("/:id/resolve", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		a, err := alertService.Resolve(db, id)
		if err != nil {
			return api.ErrorJSON(c, err)
		}
		cache.GetInstance().DeleteByTag(cache.TagAlerts)
		return c.JSON(http.StatusOK, a)
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
