package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat marks a document whose bytes decode as neither
	// a PDF nor a recognized raster image.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrMissingInput marks an extraction attempt with no image payload.
	ErrMissingInput = errors.New("encoded image not provided")
)

// UpstreamError wraps a failure of the extraction service call: network
// failure, non-2xx response, or a response that does not satisfy the
// invoice schema. The provider's detail is preserved for diagnostics.
type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction service: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("extraction service: %s", e.Detail)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
