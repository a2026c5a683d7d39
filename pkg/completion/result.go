package completion

import (
	"encoding/json"
	"errors"
	"net"
	"net/url"

	"github.com/openai/openai-go"
)

// FailureKind classifies why a completion call produced no answer.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureStatus
	FailureShape
	FailureOther
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureStatus:
		return "status"
	case FailureShape:
		return "shape"
	default:
		return "other"
	}
}

// diagnostic is the operator-facing message logged for each failure kind.
func (k FailureKind) diagnostic() string {
	switch k {
	case FailureTransport:
		return "connection error occurred"
	case FailureStatus:
		return "request error occurred"
	case FailureShape:
		return "error parsing response"
	default:
		return "unexpected error occurred"
	}
}

// Result is the outcome of one completion call. Content is only meaningful
// when OK reports true.
type Result struct {
	Content    string
	Failure    FailureKind
	StatusCode int
	Err        error
}

// OK reports whether the call produced an answer.
func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// ShapeError reports a response that decoded but lacks the expected fields.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return "missing key " + e.Field
}

// Classify maps an error returned by the SDK or by response inspection to a
// FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return FailureStatus
	}

	var shapeErr *ShapeError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &shapeErr) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return FailureShape
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return FailureTransport
	}
	return FailureOther
}

func failed(err error) Result {
	res := Result{Failure: Classify(err), Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		res.StatusCode = apiErr.StatusCode
	}
	return res
}
