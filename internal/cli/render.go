package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/sjmatta/browser-use-cli/internal/agent"
)

const (
	defaultWrap = 80
	maxWrap     = 120
)

// Presenter prints the final result of a run as Markdown.
type Presenter struct {
	out      io.Writer
	renderer *glamour.TermRenderer
	log      *log.Logger
}

// NewPresenter uses the dark style on a terminal and notty otherwise.
func NewPresenter(out io.Writer, tty bool, width int, logger *log.Logger) (*Presenter, error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithStandardStyle("dark")
	}
	if width <= 0 {
		width = defaultWrap
	}

	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Presenter{out: out, renderer: renderer, log: logger}, nil
}

// Present renders the final result and, when report is set, the run summary.
func (p *Presenter) Present(h *agent.History, report bool) error {
	result := h.FinalResult()
	if result == "" {
		p.log.Warn("agent returned no final result")
	} else if err := p.print(result); err != nil {
		return err
	}

	if report && h != nil && h.Summary != "" {
		return p.print("## Run report\n\n" + h.Summary)
	}
	return nil
}

func (p *Presenter) print(md string) error {
	rendered, err := p.renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(p.out, rendered)
	return err
}

// wrapWidth follows the terminal width with a small margin.
func wrapWidth(f *os.File) int {
	if f == nil {
		return defaultWrap
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWrap
	}
	width -= 4
	if width > maxWrap {
		width = maxWrap
	}
	if width <= 0 {
		return defaultWrap
	}
	return width
}
