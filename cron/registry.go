package cron

import (
	"sort"
	"sync"

	"stockmaster.GO/config"
	"stockmaster.GO/core/registry"
)

// Job is a named schedule entry. Run receives optional CLI arguments when a
// job is invoked directly through cron:start --job.
type Job struct {
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

// Register adds a cron job during init. Panics once the registry is locked,
// which happens on the first Jobs() read when the scheduler starts.
func Register(name string, schedule string, run func(...string)) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked (register only during init before StartCron)")
	}
	jobs := registered()
	if _, ok := jobs[name]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[name] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job (for tests).
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := registered()
	delete(jobs, name)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func registered() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns a copy of all registered jobs. Locks the cron registry on
// first call; read-only after init, so no lock is taken on reads.
func Jobs() map[string]Job {
	out := make(map[string]Job)
	for k, v := range registered() {
		out[k] = v
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}

// Names lists every runnable job, registered and built-in, sorted. Used by
// cron:start to report what --job accepts.
func Names() []string {
	seen := map[string]struct{}{}
	for name := range registered() {
		seen[name] = struct{}{}
	}
	for name := range config.CronJobs {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
