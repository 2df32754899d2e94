package api

import (
	"sync"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockmaster.GO/core/registry"
)

var mu sync.Mutex

// ModuleFunc registers routes on the authenticated /api group with DB access.
type ModuleFunc func(g *echo.Group, db *gorm.DB)

// RouteFunc registers public routes on the root Echo instance.
type RouteFunc func(e *echo.Echo, db *gorm.DB)

func load[T any](key string) []T {
	if v, ok := registry.GlobalRegistry.GetGlobal(key); ok && v != nil {
		return v.([]T)
	}
	return nil
}

func store[T any](key string, fn T) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(key) {
		panic("api/registry: " + key + " locked (register only during init)")
	}
	registry.GlobalRegistry.SetGlobal(key, append(load[T](key), fn))
}

// RegisterModule adds an API module. Each api package calls this from init().
func RegisterModule(fn ModuleFunc) {
	store(registry.KeyRegistryAPI, fn)
}

// ApplyModules runs every registered module against the /api group and locks
// the registry.
func ApplyModules(g *echo.Group, db *gorm.DB) {
	for _, fn := range load[ModuleFunc](registry.KeyRegistryAPI) {
		fn(g, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)
}

// RegisterRoute adds a root-level route module (health probes, extensions).
func RegisterRoute(fn RouteFunc) {
	store(registry.KeyRegistryRoutes, fn)
}

// RegisterGET is shorthand for a simple public GET route.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *gorm.DB) {
		e.GET(path, handler)
	})
}

// RegisterPOST is shorthand for a simple public POST route.
func RegisterPOST(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ *gorm.DB) {
		e.POST(path, handler)
	})
}

// ApplyRoutes runs every registered root-level route and locks the registry.
func ApplyRoutes(e *echo.Echo, db *gorm.DB) {
	for _, fn := range load[RouteFunc](registry.KeyRegistryRoutes) {
		fn(e, db)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
}
