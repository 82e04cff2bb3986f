package tts

// ErrorKind classifies synthesis failures. There is no malformed kind:
// any non-empty audio payload is passed through untouched.
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindUpstream  ErrorKind = "upstream_error"
	KindEmpty     ErrorKind = "empty_response"
)

// Error describes a failed synthesis request. Message is safe to relay
// to end users; the wrapped cause and status code belong in logs only.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
