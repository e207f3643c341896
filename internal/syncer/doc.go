// Package syncer keeps the registry's custom entities in step with a
// watched folder.
//
// LIFECYCLE:
//
//	Stopped -> Starting -> Running -> Stopped
//
// Start performs a full reconciliation (every in-scope image currently in
// the source is registered, one at a time) and then subscribes to the
// source's four change notifications: create, delete, rename and modify.
// Stop releases every subscription handle. Registered entities outlive the
// synchronizer; Stop never clears them.
//
// Single-Writer Event Loop:
// Source callbacks only enqueue. Events are applied in arrival order by a
// single goroutine running Run (or synchronously via ProcessPending), so
// registry mutations never interleave.
//
// EVENT TABLE:
//
//	create  (in scope)            register item
//	delete  (in scope)            deregister normalized name of item
//	modify  (in scope)            deregister, then register (reloads payload)
//	rename  was in, now out       deregister normalized name of old path
//	rename  was out, now in       register item
//	rename  was in, now in        deregister old name, then register item
//	anything else                 ignored
//
// A failure to read one item is logged and skipped; it never aborts
// reconciliation or stops the event loop.
package syncer
