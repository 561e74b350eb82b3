// Package trace provides leveled tracing for brufmt runs.
//
// Tracing shows where a sweep spends its time and which block of which file
// a slow or stuck formatter call belongs to.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	brufmt fmt --trace=- --trace-level=detail ./collection
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only block failures
//   - LevelPhase: Driver boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including per-block passes
//
// # Scopes
//
//   - ScopeDriver: File collection, the sweep, cache I/O
//   - ScopeFile: One pipeline run over one file
//   - ScopeBlock: One block kind inside a file
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file")
//	defer span.End("")
package trace
