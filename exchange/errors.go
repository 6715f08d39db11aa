package exchange

import (
	"errors"
	"fmt"
)

// genericFailure is shown when the transport reports a failure without
// any usable detail.
const genericFailure = "An unknown error occurred"

// RemoteError reports a failed exchange: the transport errored, the
// forwarding service returned an explicit error list, or the response
// was missing the expected message. Detail is already human-readable.
type RemoteError struct {
	Detail string
}

func (e *RemoteError) Error() string {
	return e.Detail
}

// ParseError reports a successful exchange whose response could not be
// decoded into a message. Users see it exactly like a RemoteError.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse exchange response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage converts any exchange failure into the string shown in
// the chat surface.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Detail
	}
	return genericFailure
}
