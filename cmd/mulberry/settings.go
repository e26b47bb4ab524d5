package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
	"github.com/mulberryleaf/mulberry-cli/internal/config"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// runSettings are the persistent options every command resolves first.
type runSettings struct {
	level  string
	format string
}

func (s runSettings) quiet() bool { return s.level == "quiet" }
func (s runSettings) debug() bool { return s.level == "debug" }
func (s runSettings) text() bool  { return s.format == formatText }

// resolveSettings reads log level and output format from flags, env or the
// config file, and points the api logger at stderr in debug mode.
func resolveSettings(cmd *cobra.Command) (runSettings, error) {
	level := strings.ToLower(strings.TrimSpace(viper.GetString("log-level")))
	if level == "" {
		level = "standard"
	}
	switch level {
	case "quiet", "standard", "debug":
		// ok
	default:
		return runSettings{}, apperr.Userf("invalid --log-level %q (expected quiet|standard|debug)", level)
	}

	format := strings.ToLower(strings.TrimSpace(viper.GetString("output")))
	if format == "" {
		format = formatText
	}
	switch format {
	case formatText, formatJSON, formatYAML:
		// ok
	default:
		return runSettings{}, apperr.Userf("invalid --output %q (expected text|json|yaml)", format)
	}

	s := runSettings{level: level, format: format}
	if s.debug() {
		api.SetLogger(cmd.ErrOrStderr())
	} else {
		api.SetLogger(nil)
	}
	return s, nil
}

// newAPIClient builds a client for the configured base URL.
func newAPIClient() (*api.Client, error) {
	baseURL := config.ResolveBaseURL(viper.GetViper())
	c, err := api.New(api.Config{BaseURL: baseURL})
	if err != nil {
		return nil, apperr.Userf("invalid API URL %q: %v", baseURL, err)
	}
	return c, nil
}

// startSpinner shows a spinner on the command's stderr when it is an
// interactive terminal and the output is human-readable. It returns nil
// otherwise; (*ui.Spinner).Stop accepts nil.
func startSpinner(cmd *cobra.Command, s runSettings, message string) *ui.Spinner {
	if s.quiet() || !s.text() {
		return nil
	}
	w := cmd.ErrOrStderr()
	if !isTerminal(w) {
		return nil
	}
	return ui.StartSpinner(w, message)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	return isTerminal(cmd.InOrStdin())
}

func logStep(w io.Writer, s runSettings, format string, args ...any) {
	if s.quiet() || !s.text() {
		return
	}
	fmt.Fprintln(w, ui.Dim.Render(fmt.Sprintf(format, args...)))
}
