// Package queue implements the task lifecycle engine.
//
// # Lifecycle
//
// A task moves through a closed set of statuses:
//
//	pending  -> running            (start)
//	running  -> done               (complete; re-evaluates dependents)
//	running  -> pending | failed   (fail; retries until max_retries)
//	blocked  -> pending            (automatic, when all dependencies are done)
//	pending, blocked, running -> cancelled (cancel)
//
// A task created with unmet dependencies starts out blocked. A dependency
// that references an unknown id counts as unmet, so a typo or a deleted
// prerequisite leaves dependents blocked rather than silently runnable.
//
// # Execution model
//
// Every operation is a full read-mutate-write cycle against the record
// store: load the whole set, apply the change, persist the whole set. A
// mutex serializes cycles within the process; concurrent processes are
// last-write-wins at the file level.
//
// # Selection
//
// Next returns the single best pending task: highest priority first, then
// earliest due date (tasks without one sort last), then earliest creation
// time. It never mutates state, so repeated calls without an intervening
// transition return the same task.
package queue
