package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockmaster.GO/config"
	alertService "stockmaster.GO/service/alert"
)

var alertsCheckCmd = &cobra.Command{
	Use:   "alerts:check",
	Short: "Run the alert evaluator sweep once",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		created, err := alertService.Check(db)
		if err != nil {
			fmt.Printf("Alert sweep failed: %v\n", err)
			return
		}
		fmt.Printf("Alert sweep complete: %d new alert(s)\n", len(created))
		for _, a := range created {
			fmt.Printf("  [%s] #%d %s\n", a.Type, a.EntityID, a.Notes)
		}
	},
}

func init() {
	rootCmd.AddCommand(alertsCheckCmd)
}
