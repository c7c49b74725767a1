// Package logging builds the process logger on top of log/slog.
//
// New returns a plain *slog.Logger whose handler chain adds request and
// trace identifiers from the context and, optionally, masks credentials:
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "relay completed",
//	    "outcome", "ok",
//	    "authorization", "Bearer sk-abc123", // masked
//	)
//
// Only the *Context logging methods see context fields.
package logging
