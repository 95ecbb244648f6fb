// Package httpserver runs the HTTP API with graceful shutdown and health probes.
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM arrives or the
// listener fails. On the way out the server stops accepting requests, waits
// for in-flight handlers and then runs the drain hooks registered with
// WithDrainHook, all inside one ShutdownTimeout budget. The dispatcher uses a
// drain hook to wait for its background deliveries.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithDrainHook(dispatcher.Shutdown),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Liveness and Readiness build probe handlers. Readiness runs every named
// check with the request context and reports per-check results as JSON.
//
// The default write timeout is zero because the SSE feed keeps responses open.
package httpserver
