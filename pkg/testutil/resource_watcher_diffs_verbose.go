//go:build verbose

package testutil

// showDiffs controls whether full go-cmp diffs are logged when WaitForMatch
// sees a near-miss. This variant is selected by building with -tags=verbose.
const showDiffs = true
