package autobuild

import "errors"

var (
	// ErrExtraction wraps failures of the intent extractor. Resolution does not
	// continue without a purpose and budget.
	ErrExtraction = errors.New("intent extraction failed")

	// ErrInvalidIntent is returned when the extracted intent has no usable budget.
	ErrInvalidIntent = errors.New("intent has no usable budget")

	// ErrGraphStore wraps graph store failures that survived transport retries.
	// A configuration built during an outage is never reported as complete.
	ErrGraphStore = errors.New("compatibility graph store unavailable")
)
