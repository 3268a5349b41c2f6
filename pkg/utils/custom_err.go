package utils

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrPOINotFound     = errors.New("poi not found")

	// ErrInsufficientCandidates: nothing survives hard filtering and no
	// relaxable constraint remains. The caller must widen the request;
	// the planner never invents a POI on its own.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrInvalidPOIReference: an assembled itinerary referenced an id the
	// catalog cannot resolve. Always a bug upstream, never patched over.
	ErrInvalidPOIReference = errors.New("invalid poi reference")

	// ErrCatalogUnavailable: no catalog snapshot has been loaded yet.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrRerankUnavailable = errors.New("rerank provider unavailable")
)
