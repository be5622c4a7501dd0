// Package traverse implements the concurrent walk of a WebDAV hierarchy.
//
// A traversal starts from a root collection whose contents are unknown in
// advance. A fixed pool of workers pulls pending resources from a shared
// frontier, probes each one, and pushes newly discovered children back onto
// the frontier. Because the tree size is not known up front, completion is
// detected by quiescence: the traversal is over exactly when the frontier is
// empty and no worker still holds an in-flight resource. That check happens
// under the frontier's lock, and the worker that observes it broadcasts to
// wake the rest of the pool.
//
// # Usage
//
//	eng := traverse.New(traverse.Options{
//		Workers: 10,
//		Client:  client,
//		Sink:    traverse.SinkFunc(func(o traverse.Outcome) { fmt.Println(o) }),
//	})
//	res, err := eng.Run(ctx, rootURL)
//
// Request failures do not abort the walk; they surface as Outcome values
// with Err set and are tallied in Result.Failures. Whether a traversal with
// failures is acceptable is the caller's policy, not the engine's.
package traverse
