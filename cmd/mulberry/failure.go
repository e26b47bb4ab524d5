package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

const (
	msgQualityFailed = "Failed to analyze image. Please try again."
	msgYieldFailed   = "Failed to get prediction. Please try again."
)

// serviceFailure is what a command returns when the inference service call
// fails. Its message is the user-facing one; the *api.Error stays reachable
// through Unwrap.
type serviceFailure struct {
	message string
	cause   error
}

func (e *serviceFailure) Error() string { return e.message }

func (e *serviceFailure) Unwrap() error { return e.cause }

// presentFailure turns a client failure into the generic message for op and,
// in debug mode, writes the full cause to w.
func presentFailure(w io.Writer, s runSettings, baseURL string, err error) error {
	var apiErr *api.Error
	op := ""
	if errors.As(err, &apiErr) {
		op = apiErr.Op
	}

	var msg string
	switch op {
	case api.OpPredictQuality:
		msg = msgQualityFailed
	case api.OpPredictYield:
		msg = msgYieldFailed
	default:
		msg = fmt.Sprintf("Service unavailable at %s.", baseURL)
	}

	if s.debug() {
		fmt.Fprintln(w, ui.Dim.Render("cause: "+err.Error()))
		if apiErr != nil && apiErr.Body != "" {
			fmt.Fprintln(w, ui.Dim.Render("response: "+apiErr.Body))
		}
	}
	return &serviceFailure{message: msg, cause: err}
}
