// Package requestid tags every HTTP request with a correlation id.
//
// The middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUID, stores it in the request context and echoes it in the
// response. LoggerExtractor adds the id to every log line written with that
// context, so dispatch and delivery logs of one API call can be grouped:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
