package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockmaster.GO/config"
	stockService "stockmaster.GO/service/stock"
)

var (
	syncProductID   uint
	syncWarehouseID uint
)

var stockSyncCmd = &cobra.Command{
	Use:   "stock:sync",
	Short: "Reconcile denormalized stock totals against inventory rows",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		if syncProductID != 0 {
			res, err := stockService.SyncProductStock(db, syncProductID)
			if err != nil {
				fmt.Printf("Sync failed: %v\n", err)
				return
			}
			report("product", syncProductID, res)
			return
		}
		if syncWarehouseID != 0 {
			res, err := stockService.SyncWarehouseOccupancy(db, syncWarehouseID)
			if err != nil {
				fmt.Printf("Sync failed: %v\n", err)
				return
			}
			report("warehouse", syncWarehouseID, res)
			return
		}

		drifted, err := stockService.SyncAll(db)
		if err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			return
		}
		fmt.Printf("Full sync complete: %d record(s) had drifted\n", drifted)
	},
}

func report(kind string, id uint, res *stockService.SyncResult) {
	if res.Drift {
		fmt.Printf("%s %d: drift corrected (recorded %d, actual %d)\n", kind, id, res.Recorded, res.Actual)
		return
	}
	fmt.Printf("%s %d: in sync (%d)\n", kind, id, res.Actual)
}

func init() {
	stockSyncCmd.Flags().UintVar(&syncProductID, "product", 0, "Sync a single product by ID")
	stockSyncCmd.Flags().UintVar(&syncWarehouseID, "warehouse", 0, "Sync a single warehouse by ID")
	rootCmd.AddCommand(stockSyncCmd)
}
