package convo

import "fmt"

// FormatError reports a conversation value that could not be decoded
// or normalized. The exchange is abandoned before any remote call.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
