package agent

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sjmatta/browser-use-cli/internal/browser"
	"github.com/sjmatta/browser-use-cli/internal/llm"
	"github.com/sjmatta/browser-use-cli/internal/logging"
	"github.com/sjmatta/browser-use-cli/internal/planner"
)

const (
	DefaultMaxSteps          = 100
	DefaultMaxActionsPerStep = 10
	DefaultMaxFailures       = 3
)

var (
	ErrEmptyTask    = errors.New("task is empty")
	ErrNoLLM        = errors.New("llm client is required")
	ErrNoBrowser    = errors.New("browser driver is required")
	ErrInterrupted  = errors.New("execution interrupted")
	ErrMaxSteps     = errors.New("max steps reached")
	ErrMaxFailures  = errors.New("too many consecutive failures")
	ErrSnapshotFail = errors.New("snapshot error")
	ErrLLMFail      = errors.New("llm error")
	ErrDeclined     = errors.New("destructive action declined")
)

// Settings configures one agent run.
type Settings struct {
	Task    string
	LLM     llm.Client
	Browser browser.Driver
	// Planner is optional; with it the run follows a high-level plan.
	Planner planner.Client

	// StartURL is opened before the first step when set.
	StartURL string

	MaxSteps          int
	MaxActionsPerStep int
	MaxFailures       int
	// StepDelay pauses between steps so pages can settle.
	StepDelay time.Duration

	// Report asks the LLM for a run summary once the run ends.
	Report bool
	// Confirm is asked before destructive actions; nil allows them.
	Confirm func(llm.Action) bool

	Logger *log.Logger
}

type Agent struct {
	task     string
	startURL string

	llm     llm.Client
	browser browser.Driver
	planner planner.Client

	maxSteps    int
	maxActions  int
	maxFailures int
	stepDelay   time.Duration

	report  bool
	confirm func(llm.Action) bool

	log *log.Logger
}

func New(s Settings) (*Agent, error) {
	task := strings.TrimSpace(s.Task)
	if task == "" {
		return nil, ErrEmptyTask
	}
	if s.LLM == nil {
		return nil, ErrNoLLM
	}
	if s.Browser == nil {
		return nil, ErrNoBrowser
	}

	a := &Agent{
		task:        task,
		startURL:    strings.TrimSpace(s.StartURL),
		llm:         s.LLM,
		browser:     s.Browser,
		planner:     s.Planner,
		maxSteps:    s.MaxSteps,
		maxActions:  s.MaxActionsPerStep,
		maxFailures: s.MaxFailures,
		stepDelay:   s.StepDelay,
		report:      s.Report,
		confirm:     s.Confirm,
		log:         s.Logger,
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.maxActions <= 0 {
		a.maxActions = DefaultMaxActionsPerStep
	}
	if a.maxFailures <= 0 {
		a.maxFailures = DefaultMaxFailures
	}
	if a.log == nil {
		a.log = logging.For(logging.AgentNamespace)
	}
	return a, nil
}

// Task returns the trimmed task the agent works on.
func (a *Agent) Task() string {
	return a.task
}
