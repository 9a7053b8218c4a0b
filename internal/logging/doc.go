// Package logging provides structured logging for the espcoredump CLI.
//
// The package keeps one process-wide zap logger. Commands initialize it once at
// startup and pass it down to library packages, which accept a *zap.Logger and
// never read the environment themselves.
//
// # Log Levels
//
// Logging is silent unless ESPCOREDUMP_LOG_LEVEL is set or --verbose is given:
//   - debug: container headers as hex, per-segment decisions, tool command lines
//   - info: files written, external tools started
//   - warn: damaged tasks that were skipped or flagged
//   - error: failures that abort a command
//
// Log output goes to stderr so it never mixes with a report printed on stdout.
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.LogRawBytes("core dump header", data[:24])
package logging
