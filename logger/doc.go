// Package logger provides structured logging for recq using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying standard field keys.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.GetGlobalLogger().WithComponent("plan")
//	log.Info("plan executed", logger.Fields(logger.FieldPlan, p.Name))
package logger
