//go:build !verbose

package testutil

// showDiffs controls whether full go-cmp diffs are logged when WaitForMatch
// sees a near-miss. The default build logs summaries only; build with
// -tags=verbose to see the diffs.
const showDiffs = false
