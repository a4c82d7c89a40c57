// Package sync implements the offer reconciliation pipeline: fetch the
// current offer set from the upstream affiliate API, classify each offer,
// diff against the stored state and persist additions and updates.
package sync

import "errors"

// Sentinel errors for the reconciliation pipeline. Adapters wrap the
// upstream sentinels so callers can match failure classes with errors.Is
// without depending on transport details.
var (
	// ErrUpstreamUnavailable indicates a transport failure or non-2xx
	// response from the affiliate API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamFormat indicates the affiliate API returned a payload
	// that could not be decoded.
	ErrUpstreamFormat = errors.New("upstream payload malformed")

	// ErrStoreUnavailable indicates a persistence-layer failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSyncFailed wraps any failure that aborted a sync run.
	ErrSyncFailed = errors.New("sync failed")
)
