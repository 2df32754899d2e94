package cron

import (
	"log"
	"os"
	"strings"

	"github.com/robfig/cron/v3"

	"stockmaster.GO/config"
)

// disabledJobs parses CRON_DISABLED, a comma-separated list of job names to
// keep off the schedule. Lets ops suspend the stock sync without a rebuild.
func disabledJobs() map[string]bool {
	out := map[string]bool{}
	for _, name := range strings.Split(os.Getenv("CRON_DISABLED"), ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name != "" {
			out[name] = true
		}
	}
	return out
}

// StartCron schedules the built-in jobs from config.CronJobs plus everything
// added through Register, then starts the scheduler.
func StartCron() *cron.Cron {
	c := cron.New()
	disabled := disabledJobs()

	schedule := func(name, spec string, run func()) {
		if disabled[strings.ToLower(name)] {
			log.Printf("cron: job %s disabled, skipping", name)
			return
		}
		if _, err := c.AddFunc(spec, run); err != nil {
			log.Fatalf("cron: failed to schedule %s: %v", name, err)
		}
		log.Printf("cron: scheduled %s (%s)", name, spec)
	}

	for name, j := range config.CronJobs {
		job := j.Job
		schedule(name, j.Schedule, func() { job() })
	}
	for name, j := range Jobs() {
		run := j.Run
		schedule(name, j.Schedule, func() { run() })
	}

	c.Start()
	return c
}
