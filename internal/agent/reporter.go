package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sjmatta/browser-use-cli/internal/llm"
)

const (
	reasonFinished    = "task finished"
	reasonMaxSteps    = "max steps reached"
	reasonInterrupted = "interrupted"
	reasonFailures    = "too many consecutive failures"
)

func humanizeReason(reason string) string {
	switch reason {
	case reasonFinished:
		return "model explicitly finished the task"
	case reasonMaxSteps:
		return "step limit reached"
	case reasonInterrupted:
		return "execution was interrupted by user (Ctrl+C)"
	case reasonFailures:
		return "LLM or page snapshot kept failing"
	default:
		return reason
	}
}

// Reporter logs each decision and writes the end-of-run record.
type Reporter struct {
	llm   llm.Client
	task  string
	trace []string
	log   *log.Logger
}

func NewReporter(llmClient llm.Client, task string, logger *log.Logger) *Reporter {
	return &Reporter{
		llm:  llmClient,
		task: task,
		log:  logger,
	}
}

func (r *Reporter) LogDecision(step int, url string, d *llm.DecisionOutput) {
	r.log.Info("decision",
		"step", step,
		"phase", strings.ToUpper(d.CurrentPhase),
		"thought", d.Thought,
	)
	if d.Observation != "" {
		r.log.Debug("observation", "step", step, "text", d.Observation)
	}

	for _, a := range d.Planned() {
		decor := ""
		if a.IsDestructive {
			decor = " [DESTRUCTIVE]"
		}
		r.log.Info("action", "step", step, "type", a.Type, "target", a.TargetID, "text", a.Text)

		r.trace = append(r.trace, fmt.Sprintf(
			"STEP %d | URL=%s | PHASE=%s | ACTION=%s[%d] %q%s | OBS=%s",
			step,
			url,
			strings.ToUpper(d.CurrentPhase),
			a.Type,
			a.TargetID,
			a.Text,
			decor,
			d.Observation,
		))
	}
}

func (r *Reporter) StepError(step int, err error) {
	r.log.Warn("step failed", "step", step, "err", err)
}

// Trace returns one line per decided action.
func (r *Reporter) Trace() []string {
	out := make([]string, len(r.trace))
	copy(out, r.trace)
	return out
}

// Finish stamps the history and, when summarize is set, attaches the LLM
// summary. A failed summary is logged and otherwise ignored.
func (r *Reporter) Finish(ctx context.Context, h *History, reason string, start time.Time, mem *StepMemory, summarize bool) {
	h.ExitReason = reason
	h.Duration = time.Since(start).Truncate(time.Millisecond)

	r.log.Info("run finished",
		"reason", reason,
		"steps", len(h.Steps),
		"duration", h.Duration,
		"loop_guard", mem.LoopTriggered(),
	)

	if !summarize {
		return
	}

	steps := mem.FullHistory()
	if len(steps) == 0 {
		steps = r.Trace()
	}

	summary, err := r.llm.SummarizeRun(ctx, llm.SummaryInput{
		Task:        r.task,
		ExitReason:  humanizeReason(reason),
		FinalURL:    h.FinalURL(),
		FinalAction: h.lastAction(),
		Duration:    h.Duration.String(),
		Steps:       steps,
	})
	if err != nil {
		r.log.Warn("failed to generate summary", "err", err)
		return
	}
	h.Summary = summary
}
