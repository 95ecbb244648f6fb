// Package templates resolves and renders per-channel notification content.
//
// A Set maps channel names to a Template (optional subject plus body). Every
// valid set carries an "in_app" template, which is used for any channel the
// set does not define. Bodies contain "{{key}}" placeholders that Render
// replaces with values from a Payload; placeholders without a matching key
// are removed.
//
// Payload values are tagged (string, number, bool, time, structured or null)
// and each kind has a fixed string form, so rendering is total:
//
//	p := templates.Payload{
//	    "order": templates.String("A-1"),
//	    "total": templates.Number(12.5),
//	}
//	templates.Render("Order {{order}}: {{total}} {{currency}}", p)
//	// "Order A-1: 12.5 "
//
// Resolver looks sets up in a Source and falls back to DefaultSet when the
// event has no registered templates.
package templates
