// Package database opens the GORM connection used by the run journal.
//
// MySQL and sqlite are supported. Connect applies timeouts and pool settings
// and pings the server before returning. GetTableColumns lets callers verify
// that a table carries the columns they expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Journal disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "reconcile_runs")
package database
