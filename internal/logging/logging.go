package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

// Logger is a tiny opt-in logger used across internal packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> <field>=<value> <formattedMessage>\n
//
// where <field> defaults to "op" and <value> is trimmed and defaults to
// "(unknown)".
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// Field names the key written before the message. Default "op".
	Field string
	// OmitField drops the "<field>=<value>" part entirely.
	OmitField bool

	// mu guards Writer and serializes writes.
	mu sync.Mutex
}

func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Writer = w
}

func (l *Logger) Logf(value string, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Writer == nil {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitField {
		fmt.Fprintf(l.Writer, "%s %s\n", prefix, msg)
		return
	}

	field := l.Field
	if field == "" {
		field = "op"
	}
	v := strings.TrimSpace(value)
	if v == "" {
		v = "(unknown)"
	}
	fmt.Fprintf(l.Writer, "%s %s=%s %s\n", prefix, field, v, msg)
}
