// Package logger builds *slog.Logger instances for notifykit services and
// provides attribute helpers that keep key names consistent across packages.
//
// New applies functional options on top of production defaults (JSON, INFO,
// stdout). Config mirrors the same knobs as environment variables so binaries
// can call FromConfig after config.Load.
//
// Every handler is wrapped by LogHandlerDecorator, which runs the registered
// ContextExtractor callbacks on each record. This is how request ids from
// pkg/requestid end up in log lines emitted deep inside the dispatch engine.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "notifyd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "dispatch accepted",
//	    logger.UserID(userID),
//	    logger.Event(event),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
