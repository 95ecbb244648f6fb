// Package validator builds declarative field checks out of small Rule values.
//
// Each rule pairs a Check with the ValidationError reported when it fails.
// Apply evaluates every rule and returns the failures as ValidationErrors,
// which implements error and matches ErrValidationFailed with errors.Is:
//
//	err := validator.Apply(
//		validator.Required("user_id", req.UserID),
//		validator.MaxLen("event", req.Event, 128),
//		validator.When(req.Channel != "",
//			validator.OneOf("channel", req.Channel, notifications.Channels())),
//		validator.Min("limit", req.Limit, 0),
//	)
//
// HTTP handlers render ValidationErrors.Map as per-field details.
package validator
