package agent

import (
	"time"

	"github.com/sjmatta/browser-use-cli/internal/llm"
	"github.com/sjmatta/browser-use-cli/internal/planner"
)

// ActionResult is the outcome of one executed action.
type ActionResult struct {
	Error            string
	ExtractedContent string
	IsDone           bool
}

// StepRecord is one observe-decide-act cycle. Error is set when the step
// failed before any action ran.
type StepRecord struct {
	Number  int
	URL     string
	Title   string
	Phase   string
	Thought string
	Actions []llm.Action
	Results []ActionResult
	Error   string
}

// History is the result of a run.
type History struct {
	Task       string
	Plan       *planner.Plan
	Steps      []StepRecord
	RunErrors  []string
	ExitReason string
	Duration   time.Duration
	// Summary is the LLM-written run report, empty unless requested.
	Summary string
}

// IsDone reports whether the run ended with a done action.
func (h *History) IsDone() bool {
	last, ok := h.lastResult()
	return ok && last.IsDone
}

// FinalResult returns the text of the final done action, or "" when the run
// did not finish.
func (h *History) FinalResult() string {
	last, ok := h.lastResult()
	if !ok || !last.IsDone {
		return ""
	}
	return last.ExtractedContent
}

// Errors lists every error of the run in step order, run-level errors last.
func (h *History) Errors() []string {
	if h == nil {
		return nil
	}
	var out []string
	for _, s := range h.Steps {
		if s.Error != "" {
			out = append(out, s.Error)
		}
		for _, r := range s.Results {
			if r.Error != "" {
				out = append(out, r.Error)
			}
		}
	}
	return append(out, h.RunErrors...)
}

// FinalURL is the URL of the last observed page.
func (h *History) FinalURL() string {
	if h == nil {
		return ""
	}
	for i := len(h.Steps) - 1; i >= 0; i-- {
		if h.Steps[i].URL != "" {
			return h.Steps[i].URL
		}
	}
	return ""
}

func (h *History) lastResult() (ActionResult, bool) {
	if h == nil || len(h.Steps) == 0 {
		return ActionResult{}, false
	}
	results := h.Steps[len(h.Steps)-1].Results
	if len(results) == 0 {
		return ActionResult{}, false
	}
	return results[len(results)-1], true
}

func (h *History) lastAction() llm.Action {
	if h == nil {
		return llm.Action{}
	}
	for i := len(h.Steps) - 1; i >= 0; i-- {
		if n := len(h.Steps[i].Actions); n > 0 {
			return h.Steps[i].Actions[n-1]
		}
	}
	return llm.Action{}
}
