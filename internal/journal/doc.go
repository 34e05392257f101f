// Package journal provides an append-only SQLite log of user store operations.
//
// Every operation the tooling executes against a user.Manager can be
// recorded as an Entry. Entries are grouped by run id and ordered by a
// per-run logical seq, never by wall-clock time, so a run can be replayed
// against a fresh manager to check that ids and outcomes are reproduced.
//
// The journal is an audit trail. It is not a persistence layer: no manager
// is restored from it for serving.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package journal
