package llm

import "fmt"

type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindAuth
	KindRateLimit
	KindProvider
	KindEmpty
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate limit"
	case KindProvider:
		return "provider"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type ChatError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ChatError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Code != "":
		return fmt.Sprintf("%s error (%d, %s): %s", e.Kind, e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *ChatError) Unwrap() error {
	return e.Err
}
