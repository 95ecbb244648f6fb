// Package broadcast fans values out to live subscribers grouped by topic.
//
// A Hub never blocks publishers: each subscription has a bounded buffer and
// values that do not fit are dropped for that subscriber only. Subscriptions
// end when their context is cancelled, when Close is called, or when the hub
// is closed; in every case the receive channel is closed.
//
//	hub := broadcast.NewHub[string](broadcast.WithBufferSize(16))
//	defer hub.Close()
//
//	sub := hub.Subscribe(ctx, "user-1")
//	defer sub.Close()
//
//	hub.Publish(ctx, "user-1", "hello")
//	for v := range sub.C() {
//		fmt.Println(v)
//	}
package broadcast
