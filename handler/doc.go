// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A HandlerFunc receives a decoded request struct and returns a Response.
// Wrap runs the configured binders, the decorators and the handler, then
// renders the response. Any error along the way goes to the ErrorHandler,
// which by default answers with the JSON error envelope:
//
//	{"error": {"code": "not_found", "message": "record not found"}}
//
// Successful JSON answers use the same envelope with a "data" member.
// Stream writes a Server-Sent Events response.
//
//	h := handler.HandlerFunc[getRecordRequest](func(ctx handler.Context, req getRecordRequest) handler.Response {
//		rec, err := store.Get(ctx, req.Key)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(rec)
//	})
//	r.Get("/records/{key}", handler.Wrap(h, handler.WithBinders[getRecordRequest](binder.Path(chi.URLParam))))
package handler
