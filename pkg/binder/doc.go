// Package binder decodes HTTP requests into typed structs.
//
// Each binder handles one source and is selected by struct tags:
//
//	type listRequest struct {
//		UserID  string    `path:"userID"`
//		Channel string    `query:"channel"`
//		Limit   int       `query:"limit"`
//		Since   time.Time `query:"since"`
//	}
//
// JSON decodes the body strictly: the Content-Type must be application/json,
// unknown fields are rejected and the body is capped at MaxJSONSize. Query
// and Path fill basic kinds, slices, pointers, time.Time (RFC 3339) and any
// type implementing encoding.TextUnmarshaler.
package binder
