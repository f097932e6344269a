package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// InputPrompt is shown when the task is typed interactively.
const InputPrompt = "Enter input: "

var ErrPromptInterrupted = errors.New("input interrupted")

// Prompter reads one line from the user.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

type readlinePrompter struct {
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
}

// NewReadlinePrompter returns a Prompter with line editing on the terminal.
// stdin is only touched when Prompt is called.
func NewReadlinePrompter(stdin *os.File, stdout, stderr io.Writer) Prompter {
	return &readlinePrompter{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func (p *readlinePrompter) Prompt(prompt string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		Stdin:           readline.NewCancelableStdin(p.stdin),
		Stdout:          p.stdout,
		Stderr:          p.stderr,
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrPromptInterrupted
	case errors.Is(err, io.EOF):
		return "", fmt.Errorf("%w: end of input", ErrPromptInterrupted)
	case err != nil:
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ReadTask returns the trimmed task: all of stdin when it is piped, otherwise
// one line from the prompter. Empty input is returned as is.
func ReadTask(stdin io.Reader, piped bool, p Prompter) (string, error) {
	if piped {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := p.Prompt(InputPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
