package api

import (
	"io"

	"github.com/mulberryleaf/mulberry-cli/internal/logging"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "API:", PrefixColor: ui.FgCyan}

// SetLogger sets an optional destination for request logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(op string, format string, args ...any) {
	logger.Logf(op, format, args...)
}
