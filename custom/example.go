package custom

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"stockmaster.GO/api"
	"stockmaster.GO/cmd"
	"stockmaster.GO/config"
	"stockmaster.GO/cron"
)

// Extension example: everything here registers through the init()-time
// registries, the same way site-specific plugins would.

var startedAt = time.Now()

func init() {
	cmd.Register(&cobra.Command{
		Use:   "custom:uptime",
		Short: "Print process uptime (extension command example)",
		Run: func(c *cobra.Command, args []string) {
			fmt.Printf("up %s\n", time.Since(startedAt).Round(time.Second))
		},
	})

	cron.Register("heartbeat", "@every 5m", func(args ...string) {
		fmt.Println("heartbeat:", time.Now().Format(time.RFC3339))
	})

	api.RegisterGET("/custom/uptime", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"app":    config.GetEnv("APP_NAME", "stockmaster"),
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	})
}
