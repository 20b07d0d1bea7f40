package cell

import "fmt"

type ErrorKind int

const (
	KindProvider ErrorKind = iota + 1
	KindStatus
	KindMalformed
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindProvider:
		return "provider"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LookupError is the only error type Lookup returns. Its message is meant to
// be shown to the user as is.
type LookupError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case KindProvider:
		return "Error: " + e.Message
	case KindStatus:
		return fmt.Sprintf("Error: Status code %d", e.StatusCode)
	case KindMalformed:
		return "XML Parse Error: " + e.Message
	default:
		return "Error: " + e.Message
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) *LookupError {
	return &LookupError{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}
