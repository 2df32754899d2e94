package config

// CronJob pairs a schedule expression with the job to run. Job args are only
// used when a job is invoked directly from the CLI.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds the built-in schedules. Populated by the jobs package during
// init so this package stays import-cycle free; individual jobs can be
// suspended at runtime via CRON_DISABLED.
var CronJobs = map[string]CronJob{}

// RegisterCronJob adds a built-in job. Call during init.
func RegisterCronJob(name, schedule string, job func(...string)) {
	CronJobs[name] = CronJob{Schedule: schedule, Job: job}
}
