package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stockmaster.GO/api"
	"stockmaster.GO/config"
	inventoryRepo "stockmaster.GO/model/repository/inventory"
	productRepo "stockmaster.GO/model/repository/product"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// StockResponse reports both the denormalized product total and the summed
// inventory truth, so dashboard clients can surface drift immediately.
type StockResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Recorded  int64  `json:"recorded"`
	Actual    int64  `json:"actual"`
	Drift     bool   `json:"drift"`
}

var (
	inventoryRepoInstance *inventoryRepo.InventoryRepository
	repoOnce              sync.Once
	repoErr               error
)

func getInventoryRepo(db *gorm.DB) (*inventoryRepo.InventoryRepository, error) {
	repoOnce.Do(func() {
		inventoryRepoInstance, repoErr = inventoryRepo.NewInventoryRepository(db)
	})
	return inventoryRepoInstance, repoErr
}

func getCryptKey() string {
	return config.GetEnv("REALTIME_CRYPT_KEY", "")
}

// verifyClientSignature validates HMAC-SHA256 signature using constant-time comparison
func verifyClientSignature(clientID, signature, cryptKey string) bool {
	if cryptKey == "" || clientID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(cryptKey))
	mac.Write([]byte(clientID))
	expected := mac.Sum(nil)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

// RegisterRealtimeRoutes sets up the unauthenticated realtime stock feed. It
// bypasses the API auth middleware; when REALTIME_CRYPT_KEY is set, requests
// must carry a valid client signature instead.
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/stock?product_id=N
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()

		clientID := c.Request().Header.Get("X-Client-ID")
		clientSig := c.Request().Header.Get("X-Client-Sig")
		cryptKey := getCryptKey()

		if cryptKey != "" && !verifyClientSignature(clientID, clientSig, cryptKey) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
		}

		pid, err := strconv.ParseUint(c.QueryParam("product_id"), 10, 32)
		if err != nil || pid == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
		}
		productID := uint(pid)

		iRepo, err := getInventoryRepo(db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repository init failed"})
		}
		pRepo := productRepo.GetProductRepository(db)

		var (
			name     string
			recorded int64
			actual   int64
			found    bool
		)

		// Parallel fetch using errgroup
		eg := new(errgroup.Group)

		eg.Go(func() error {
			if p, err := pRepo.FindByID(productID); err == nil {
				name = p.Name
				recorded = p.Stock
				found = true
			}
			return nil
		})

		eg.Go(func() error {
			total, err := iRepo.SumQuantityByProduct(productID)
			if err == nil {
				actual = total
			}
			return nil
		})

		_ = eg.Wait()

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		if !found {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":               "product not found",
				"request_duration_ms": duration,
			})
		}

		return c.JSON(http.StatusOK, StockResponse{
			ProductID: productID,
			Name:      name,
			Recorded:  recorded,
			Actual:    actual,
			Drift:     recorded != actual,
		})
	})
}
