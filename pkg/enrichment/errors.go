package enrichment

import "errors"

var (
	// ErrEmptyInput reports that the query set or the background universe
	// was empty, so no contingency table can be built.
	ErrEmptyInput = errors.New("empty query set or universe")

	// ErrDegenerateInput reports that too few ranked genes overlap any
	// gene set for a preranked analysis to be meaningful.
	ErrDegenerateInput = errors.New("insufficient overlap between ranked genes and gene sets")

	// ErrUnknownMethod reports an unrecognized correction method name.
	ErrUnknownMethod = errors.New("unknown correction method")
)
