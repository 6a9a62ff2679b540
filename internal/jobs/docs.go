// Package jobs provides scheduled background tasks for the parcel tracker.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ReconciliationJob - Moves every active parcel to the waypoint its elapsed
// transit time calls for and appends the matching tracking events.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconcileHandler, cfg.ReconcileSchedule, cfg.ReconcileTimeout, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule is a six-field cron expression with a leading seconds field,
// "0 */5 * * * *" by default. Progress depends on elapsed time only, so the
// interval affects how fresh positions are, never where a parcel ends up.
// Overlapping ticks are skipped.
//
// # Error Handling
//
// - Per-parcel failures are logged by the reconciler and retried next tick
// - A failed tick (e.g. the parcel list could not be read) is logged by the job
// - Panics inside a tick are recovered and logged
package jobs
