package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const statusMessage = "Automating your browser to answer your query..."

var statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))

// Spinner animates a status line on a terminal while a call is in flight.
// Off a terminal it prints the message once.
type Spinner struct {
	out      io.Writer
	animated bool
	frames   spinner.Spinner
	message  string

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewSpinner(out io.Writer, animated bool) *Spinner {
	return &Spinner{
		out:      out,
		animated: animated,
		frames:   spinner.Globe,
		message:  statusMessage,
	}
}

// Start is a no-op when the spinner is already running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}
	if !s.animated {
		fmt.Fprintln(s.out, s.message)
		s.stop = make(chan struct{})
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(s.stop, s.done)
}

func (s *Spinner) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := s.frames.FPS
	if fps <= 0 {
		fps = time.Second / 4
	}
	ticker := time.NewTicker(fps)
	defer ticker.Stop()

	msg := statusStyle.Render(s.message)
	for i := 0; ; i++ {
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		fmt.Fprintf(s.out, "\r%s %s", frame, msg)

		select {
		case <-stop:
			// clear the status line
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and waits for the line to be cleared.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return
	}
	close(s.stop)
	if s.done != nil {
		<-s.done
	}
	s.stop, s.done = nil, nil
}
