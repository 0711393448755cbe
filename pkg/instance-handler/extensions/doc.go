// Package extensions converges the extension state of a CoreDB instance
// with its spec: packaged extensions are installed into the instance
// pods with trunk, and per-database CREATE/DROP EXTENSION toggles are
// applied through psql.
//
// The pipeline records one outcome per item in the CoreDB status and
// never re-attempts a recorded failure. Removing the item from the spec
// prunes its status entry, which is the user's lever to retry after
// fixing the cause. Transport-level failures (the command never ran)
// are the exception: nothing is recorded and the pass is retried after
// a short delay.
//
// Status write-backs go through merge patches against the status
// subresource, read-modify-write, so concurrent passes converge instead
// of clobbering each other: arrays are merged by key, re-sorted and
// deduplicated before each patch.
package extensions
