// Package logging provides structured logging for webos3d.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is requested, so CLI output stays clean:
//
//	WEBOS3D_LOG_LEVEL=debug webos3d 3d set top_bottom
//
// # Log Levels
//
//   - Debug: frame contents, command round trips, discovery replies
//   - Info: session lifecycle (dial, registration, pointer channel)
//   - Warn: reconnects, resends, unexpected TV state
//   - Error: terminal failures
//
// # Specialized Logging
//
//	logging.LogConnection(host, "registered")
//	logging.LogCommand(host, uri, id, attempt)
//	logging.LogWebSocketMessage(host, "control", "sent", msgType, data)
//	logging.LogRawBytes("SSDP response", data)
//
// Client keys are redacted from logged frames.
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format.
package logging
