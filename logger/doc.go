// Package logger provides structured logging capabilities.
//
// The logger package sets up and configures the application's logging
// system using zap. Entries go to stderr in both modes, so stdout stays
// free for the MCP stdio transport.
//
// Usage:
//
//	log, err := logger.New(logger.ModeProduction, "info")
//	if err != nil {
//	    panic(err)
//	}
//	log.Info("application started")
package logger
