package source

// kindError is a sentinel error that also carries a short kind label for
// metrics. Callers match with errors.Is against the exported values below.
type kindError struct {
	msg  string
	kind string
}

func (e *kindError) Error() string { return e.msg }

// ErrorKind implements observability.ErrorKinder.
func (e *kindError) ErrorKind() string { return e.kind }

var (
	// ErrSourceUnavailable marks a network failure, timeout or upstream
	// server error. Recoverable: the registry tries the next source.
	ErrSourceUnavailable = &kindError{msg: "source unavailable", kind: "unavailable"}

	// ErrMalformedResponse marks a payload that could not be parsed into
	// the expected shape. Treated exactly like a source failure.
	ErrMalformedResponse = &kindError{msg: "malformed response", kind: "malformed"}

	// ErrUnsupported marks an operation the provider has no endpoint for.
	// Absorbed by the registry like any other source failure.
	ErrUnsupported = &kindError{msg: "operation not supported by source", kind: "unsupported"}

	// ErrNoDataAvailable is returned when every configured source failed
	// for a quote or history resolution. Surfaced to the caller.
	ErrNoDataAvailable = &kindError{msg: "no data available from any source", kind: "exhausted"}

	// ErrNoPairsAvailable is returned when the primary pairs fetch failed.
	// Surfaced to the caller.
	ErrNoPairsAvailable = &kindError{msg: "no trading pairs available", kind: "exhausted"}
)
