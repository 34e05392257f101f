// Package user provides the in-memory user store.
//
// A Manager holds users in insertion order together with a monotonic id
// sequence. Ids are assigned by the manager, start at 1 and are never
// reused, even after a user is deleted.
//
// Not-found is reported as a value (false), never as an error.
//
// Concurrency: a Manager performs no internal locking. All access to one
// Manager must be serialized by the caller (a single owning goroutine or an
// external mutex).
package user
