// Package coordination implements the claim/progress/complete/fail
// lifecycle over the shared ledger using optimistic concurrency control.
//
// Every operation is a short, bounded snapshot-compute-commit cycle: read a
// complete ledger snapshot plus its version, apply the mutation to a copy,
// and commit it back only if no other agent committed in between. Stale
// commits are retried with randomized exponential backoff up to a capped
// attempt count, after which the operation fails explicitly rather than
// blocking the caller. Admission conflicts are returned immediately and
// never retried, since retrying without caller input cannot change the
// outcome.
//
// The Hub is the composition root: it owns the ledger store, the agent
// registry, the telemetry recorder, and the event bus, with explicit
// init and teardown in place of ambient global state.
package coordination
