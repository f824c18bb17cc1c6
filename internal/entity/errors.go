package entity

import "errors"

// Upstream and storage failure categories. Callers match with errors.Is; the
// valuation path converts the first three to a zero component and the
// persistence and fallback paths log ErrStoreUnavailable without surfacing it.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInvalidAddress      = errors.New("invalid wallet address")
	ErrMalformedResponse   = errors.New("malformed upstream response")
	ErrStoreUnavailable    = errors.New("snapshot store unavailable")
)
