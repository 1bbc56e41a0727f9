// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic ticks the navigation flow needs.
//
// # Available Jobs
//
// 1. StatusRefreshJob - Runs every 2 seconds to recompute distance, ETA and
// arrival for the active order from the latest location sample
// 2. OrderSyncJob - Runs every 5 seconds to reload tracked orders and
// re-derive their phase when the dispatch backend changed the status
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(controller, engine, store, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The status refresh job treats "no order loaded" as the idle state
// - The order sync job logs reload failures per order and keeps going
// - Failed job starts will stop any already running jobs
package jobs
