// Package scheduler implements the bounded-parallelism fetch dispatcher.
//
// A Batch runs one fetch per requested name across a fixed pool of worker
// goroutines and collects the complete set of outcomes before returning.
// There is no early return on first failure: every name gets exactly one
// outcome, success or failure, so callers always receive a full accounting.
//
// Workers never touch shared state directly. Each worker writes its outcome
// to a results channel and a single collection loop drains it, which keeps
// the merge point serialized without per-entry locking.
//
// Each batch carries a uuid for log/trace correlation, emits an OpenTelemetry
// span per batch and per fetch, and publishes FetchEvents on a pubsub broker
// so interactive callers can render progress.
package scheduler
