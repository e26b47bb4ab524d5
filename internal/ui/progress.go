package ui

import (
	"io"
	"sync"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// spinnerModel is the Bubble Tea model shown while a request is in flight.
type spinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

type stopSpinnerMsg struct{}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stopSpinnerMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + Dim.Render(m.message))
}

// Spinner shows an inline spinner without exposing Bubble Tea to callers.
// The zero value and a nil *Spinner are inert.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// StartSpinner starts a spinner on w with the given message. It never reads
// from stdin, so it can run alongside a blocking network call.
func StartSpinner(w io.Writer, message string) *Spinner {
	s := &Spinner{done: make(chan struct{})}
	s.program = tea.NewProgram(
		newSpinnerModel(message),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.running = true
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
	return s
}

// Stop clears the spinner and waits for it to exit.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil || !s.running {
		return
	}
	s.running = false
	s.program.Send(stopSpinnerMsg{})
	<-s.done
}
