// Package universe implements the domain layer for universe assembly.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the System record and the immutable Universe aggregate
//   - Implements construction logic (uniqueness enforcement, single-use builder)
//   - Has no knowledge of infrastructure concerns (HTTP, databases, caching)
//
// # Core Types
//
// System is a single named, immutable record sourced externally. Its payload
// is opaque to this package.
//
// Universe is the finalized, name-indexed aggregate of Systems. Once built it
// is never mutated, so all read access is safe without synchronization.
//
// Builder is the mutable, single-use accumulator that enforces name
// uniqueness during construction. Build consumes the builder; every
// operation afterwards fails with ErrBuilderConsumed.
//
// # Fetching
//
// Fetcher is the capability boundary for retrieving one System by name.
// Implementations (HTTP client, sqlite reader, fakes) live outside this
// package and must be safe for concurrent use.
//
// Scheduler dispatches a batch of fetches with bounded parallelism and
// returns the complete set of Outcomes. Builder.FetchAndAddAll folds those
// outcomes into the pending map under AddSystem semantics and reports a full
// per-name accounting rather than aborting on the first failure.
package universe
