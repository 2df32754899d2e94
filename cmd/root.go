package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockmaster",
	Short: "Warehouse stock engine CLI",
	Long:  "Maintenance and operations CLI for the warehouse stock engine: cron, alerts, reconciliation and migrations.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("NO_BANNER") != "" {
			return
		}
		// ASCII banner (random font each run)
		fonts := []string{"banner", "big", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "rectangles"}
		fig := figure.NewFigure("StockMaster", fonts[rand.Intn(len(fonts))], true)
		fig.Print()
		fmt.Println()
	},
}

// Execute runs the CLI. Registered commands are applied first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
