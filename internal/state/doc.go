// Package state holds the committed discovery view shared by the UI, the
// background refresher and the one-shot CLI.
//
// # Overview
//
// Discovery requests are issued with strictly increasing sequence numbers
// and may complete in any order. The Store is the one place their results
// meet: Commit compares a result's sequence number with the highest one seen
// so far and drops anything older.
//
//	R1 issued (seq 1) ──────────────────────┐
//	R2 issued (seq 2) ───────┐              │
//	                         ↓              ↓
//	               Commit(seq 2) = true   Commit(seq 1) = false
//
// # Update Semantics
//
//	// Success with the highest seq: replace the page
//	store.Commit(state.Result{Seq: 5, Page: page})
//	→ snapshot.Page = page
//	→ snapshot.LastError = nil
//
//	// Failure with the highest seq: keep the page, record the error
//	store.Commit(state.Result{Seq: 6, Err: err})
//	→ snapshot.Page = <unchanged>
//	→ snapshot.LastError = err
//
//	// Anything with seq <= 6 from now on is ignored
//
// The UI never blanks its results because a request failed; it shows the
// error beside the last good page.
//
// # Concurrency Model
//
// Store uses a readers-writer lock and is safe to use from its zero value.
// Commit and Snapshot copy slices so callers never share backing arrays with
// the stored view.
package state
