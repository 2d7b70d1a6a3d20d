// Package log provides a simple, leveled logging interface for dyngraph.
//
// The dual-buffer coordinator and the batch applier are the main in-tree
// consumers: refresh cycles, swap outcomes and batch partial failures are all
// reported through this package so that a failed refresh degrades to a log
// line and stale data rather than an outage.
//
// # Log Levels
//
// Five levels, in order of increasing severity:
//
//   - LogLevelDebug: detailed debugging information for development
//   - LogLevelInfo: general informational messages about normal operation
//   - LogLevelWarn: warning messages for potentially problematic situations
//   - LogLevelError: error messages for failures that need attention
//   - LogLevelNone: disables all logging output
//
// # Example Usage
//
// Basic logging:
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("refresh cycle complete: generation=%d", gen)
//	logger.Error("refresh cycle failed: %v", err)
//
// Package-level logging (used by components when no Logger is injected):
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Debug("batch %s applied", batchID)
//
// Integration with kataras/golog:
//
//	glogger := golog.New()
//	log.SetDefaultLogger(log.NewGologLogger(glogger))
package log
