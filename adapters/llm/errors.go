package llm

// ErrorKind classifies completion failures into a stable taxonomy that
// callers can branch on without inspecting messages.
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindUpstream  ErrorKind = "upstream_error"
	KindMalformed ErrorKind = "malformed_response"
	KindEmpty     ErrorKind = "empty_response"
)

// Error describes a failed completion request. Message is safe to relay
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
