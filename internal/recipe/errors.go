package recipe

import "errors"

// Sentinel errors shared by the extraction pipeline, the stores and the API.
var (
	ErrMissingInput          = errors.New("missing input")
	ErrInvalidSource         = errors.New("invalid source")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrFetchFailed           = errors.New("fetch failed")
	ErrUpstreamService       = errors.New("upstream service error")
	ErrNotFound              = errors.New("not found")
)
