// Package logger provides structured logging for robusthttp built on zerolog.
//
// The client accepts any *Logger; when none is supplied it falls back to a
// shared default. Use WithComponent to tag sub-loggers and Fields to build
// field maps inline:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "payments")
//	log.Info("request sent", logger.Fields("method", "GET", "url", u))
package logger
