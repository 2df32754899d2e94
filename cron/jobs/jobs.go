package jobs

import (
	"log"

	"stockmaster.GO/config"
	alertService "stockmaster.GO/service/alert"
	stockService "stockmaster.GO/service/stock"
)

func init() {
	// Alert sweep keeps threshold alerts current; the hourly sync reconciles
	// the denormalized product and warehouse aggregates.
	config.RegisterCronJob("alertsweep", "@every 10m", AlertSweepJob)
	config.RegisterCronJob("stocksync", "0 * * * *", StockSyncJob)
}

// AlertSweepJob runs the alert evaluator over the whole store.
func AlertSweepJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("alertsweep: db: %v", err)
		return
	}
	created, err := alertService.Check(db)
	if err != nil {
		log.Printf("alertsweep: %v", err)
		return
	}
	if len(created) > 0 {
		log.Printf("alertsweep: %d new alert(s)", len(created))
	}
}

// StockSyncJob reconciles every product total and warehouse occupancy.
func StockSyncJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("stocksync: db: %v", err)
		return
	}
	drifted, err := stockService.SyncAll(db)
	if err != nil {
		log.Printf("stocksync: %v", err)
		return
	}
	if drifted > 0 {
		log.Printf("stocksync: corrected %d drifted record(s)", drifted)
	}
}
