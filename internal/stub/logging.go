package stub

import (
	"io"

	"github.com/mulberryleaf/mulberry-cli/internal/logging"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Stub:", PrefixColor: ui.FgGreen, Field: "route"}

// SetLogger sets an optional destination for request logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(route string, format string, args ...any) {
	logger.Logf(route, format, args...)
}
