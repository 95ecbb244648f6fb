// Package catalog loads the event catalog: which events exist, how they are
// classified and which templates render them.
//
// A catalog is a YAML document:
//
//	events:
//	  order_shipped:
//	    type: order
//	    priority: high
//	    templates:
//	      email:
//	        subject: "Order {{order_id}} shipped"
//	        body: "<p>Your order {{order_id}} is on its way.</p>"
//	      in_app:
//	        body: "Order {{order_id}} shipped"
//
// Catalogs come from a local file, from an S3 object or from the default
// embedded in the binary. Apply copies the events into a notifications
// registry and the templates into a template source.
package catalog
