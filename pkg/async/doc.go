// Package async provides small generic helpers for running work concurrently.
//
// Future and Async cover the "start now, collect later" case: Async runs a
// function in its own goroutine and returns a *Future that can be awaited.
// WaitAll is a barrier over many futures; unlike an early-return helper it
// always waits for every future so callers can rely on all side effects being
// finished when it returns.
//
// Group covers fire-and-forget work that must still be accounted for: each
// task runs in its own goroutine, a panic inside one task is recovered and
// reported as a *PanicError to that task's handler only, and Wait lets a
// process drain in-flight tasks before shutting down.
//
//	futures := make([]*async.Future[struct{}], 0, len(items))
//	for _, it := range items {
//	    futures = append(futures, async.Async(ctx, it, store))
//	}
//	_, err := async.WaitAll(futures...)
//
//	var g async.Group
//	g.Go(ctx, deliver, func(err error) { log.Error("delivery failed", "error", err) })
//	defer g.Wait()
package async
