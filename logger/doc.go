// Package logger provides structured logging for streamkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. Pipeline code tags entries with run_id, stage,
// value and signal fields so a run can be followed push by push.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("flow").WithRun(runID)
//	log.Debug("push", logger.Fields(logger.FieldStage, "window", logger.FieldSignal, true))
package logger
