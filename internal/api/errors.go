package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies why an operation against the inference service failed.
type Kind int

const (
	// KindTransport covers connection refused, DNS failures, timeouts and
	// local I/O (e.g. an unreadable image) that stop a request from completing.
	KindTransport Kind = iota + 1
	// KindProtocol is a non-2xx HTTP status.
	KindProtocol
	// KindSchema is a 2xx response that lacks a field the contract requires.
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Operation names carried by Error.Op.
const (
	OpHealth         = "health"
	OpPredictQuality = "predict_quality"
	OpPredictYield   = "predict_yield"
)

// ErrTimeout is matched by errors.Is for transport failures caused by the
// request deadline.
var ErrTimeout = errors.New("request timed out")

// Error is returned for every failure to talk to the service. Callers switch
// on Kind; Cause holds the underlying error when there is one. Caller mistakes
// caught before a request is built, such as a yield input JSON cannot
// encode, are plain errors instead.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int    // set for KindProtocol
	Body       string // truncated response body, KindProtocol only
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	b.WriteString(" failure")
	if e.Kind == KindProtocol {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrTimeout) match timed-out transport failures.
func (e *Error) Is(target error) bool {
	return target == ErrTimeout && e.Kind == KindTransport && isTimeout(e.Cause)
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

const maxErrorBody = 512

func transportErr(op string, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, Cause: cause}
}

func protocolErr(op string, resp *http.Response, body []byte) *Error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &Error{
		Kind:       KindProtocol,
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func schemaErr(op string, format string, args ...any) *Error {
	return &Error{Kind: KindSchema, Op: op, Cause: fmt.Errorf(format, args...)}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTransport reports whether err is (or wraps) a transport failure.
func IsTransport(err error) bool { return kindOf(err) == KindTransport }

// IsProtocol reports whether err is (or wraps) a non-2xx response failure.
func IsProtocol(err error) bool { return kindOf(err) == KindProtocol }

// IsSchema reports whether err is (or wraps) a contract violation in a 2xx body.
func IsSchema(err error) bool { return kindOf(err) == KindSchema }

// IsTimeout reports whether err is a transport failure caused by the deadline.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
