package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sjmatta/browser-use-cli/internal/llm"
)

const loopGuardScroll = 300

// run holds the per-run mutable state.
type run struct {
	task     string
	history  *History
	mem      *StepMemory
	reporter *Reporter
	plan     *planState
	prevTree string
}

// Run drives the browser until the model finishes the task, the step budget
// is spent or failures pile up. Those outcomes are recorded in the history,
// not returned; the error is non-nil only when ctx is cancelled or the start
// page cannot be opened.
func (a *Agent) Run(ctx context.Context) (*History, error) {
	start := time.Now()

	r := &run{
		task:     a.task,
		history:  &History{Task: a.task},
		mem:      NewStepMemory(10, 3),
		reporter: NewReporter(a.llm, a.task, a.log),
	}

	if a.startURL != "" {
		if err := a.browser.Navigate(ctx, a.startURL); err != nil {
			return r.history, fmt.Errorf("open start url: %w", err)
		}
		r.task = BuildTaskWithEnvironment(a.task, a.startURL)
	}

	if a.planner != nil {
		plan, err := a.planner.BuildPlan(ctx, a.task)
		if err != nil {
			a.log.Warn("planning failed, continuing without a plan", "err", err)
			r.history.RunErrors = append(r.history.RunErrors, fmt.Sprintf("build plan failed: %v", err))
		} else {
			r.history.Plan = plan
			a.log.Info("plan ready", "steps", len(plan.Steps))
			a.log.Debug("plan\n" + plan.String())
		}
		r.plan = newPlanState(plan)
	}

	reason := reasonMaxSteps
	failures := 0

loop:
	for step := 1; step <= a.maxSteps; step++ {
		if ctx.Err() != nil {
			reason = reasonInterrupted
			break
		}

		rec, done, err := a.executeStep(ctx, step, r)
		r.history.Steps = append(r.history.Steps, rec)

		switch {
		case err != nil:
			r.reporter.StepError(step, err)
			if ctx.Err() != nil {
				reason = reasonInterrupted
				break loop
			}
			failures++
			if failures >= a.maxFailures {
				reason = reasonFailures
				r.history.RunErrors = append(r.history.RunErrors,
					fmt.Sprintf("%v: stopped after %d failed steps", ErrMaxFailures, failures))
				break loop
			}
		case done:
			reason = reasonFinished
			break loop
		default:
			failures = 0
		}

		if a.stepDelay > 0 && step < a.maxSteps {
			select {
			case <-ctx.Done():
			case <-time.After(a.stepDelay):
			}
		}
	}

	if reason == reasonMaxSteps {
		r.history.RunErrors = append(r.history.RunErrors,
			fmt.Sprintf("%v: %d steps without finishing the task", ErrMaxSteps, a.maxSteps))
	}

	r.reporter.Finish(ctx, r.history, reason, start, r.mem, a.report)

	if reason == reasonInterrupted {
		return r.history, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}
	return r.history, nil
}

func (a *Agent) executeStep(ctx context.Context, step int, r *run) (StepRecord, bool, error) {
	rec := StepRecord{Number: step}

	snap, err := a.browser.Snapshot(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSnapshotFail, err)
		rec.Error = fmt.Sprintf("step %d: %v", step, err)
		return rec, false, err
	}
	rec.URL = snap.URL
	rec.Title = snap.Title
	a.log.Debug("page", "step", step, "url", snap.URL, "title", snap.Title)

	if r.prevTree != "" && snap.Tree == r.prevTree {
		r.mem.AddSystemNote("SYSTEM ALERT: Last action had NO VISIBLE EFFECT.")
	}
	r.prevTree = snap.Tree

	decision, err := a.llm.DecideAction(ctx, llm.DecisionInput{
		Task:             r.plan.taskPrompt(r.task, snap.HasDialog()),
		DOMTree:          snap.Tree,
		CurrentURL:       snap.URL,
		History:          r.mem.HistoryString(),
		ScreenshotBase64: snap.ScreenshotBase64,
		MaxActions:       a.maxActions,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrLLMFail, err)
		rec.Error = fmt.Sprintf("step %d: %v", step, err)
		return rec, false, err
	}

	r.reporter.LogDecision(step, snap.URL, decision)
	rec.Phase = decision.CurrentPhase
	rec.Thought = decision.Thought

	actions := decision.Planned()
	if len(actions) > a.maxActions {
		a.log.Debug("truncating actions", "step", step, "got", len(actions), "max", a.maxActions)
		actions = actions[:a.maxActions]
	}
	if len(actions) == 0 {
		r.mem.AddSystemNote("SYSTEM NOTE: No action was returned. Respond with at least one action.")
		return rec, false, nil
	}

	for i, action := range actions {
		if action.Type == llm.ActionDone {
			rec.Actions = append(rec.Actions, action)
			rec.Results = append(rec.Results, ActionResult{
				IsDone:           true,
				ExtractedContent: strings.TrimSpace(action.Text),
			})
			return rec, true, nil
		}

		if blocked, note := r.mem.ShouldBlock(snap.URL, action); blocked {
			a.log.Warn("loop guard: suppressing action", "type", action.Type, "target", action.TargetID)
			r.mem.AddSystemNote(note)
			r.mem.MarkLoopTriggered()
			_ = a.browser.Scroll(ctx, loopGuardScroll)

			if r.plan.blocked() {
				ps, _ := r.plan.step()
				r.mem.AddSystemNote(fmt.Sprintf(
					"SYSTEM NOTE: Several actions for plan step %d were blocked as loops. "+
						"Treat this plan step as completed or not actionable and move on.",
					ps.Index,
				))
				r.plan.advance()
			}
			break
		}

		rec.Actions = append(rec.Actions, action)

		if err := a.executeAction(ctx, action, snap.URL); err != nil {
			if ctx.Err() != nil {
				rec.Results = append(rec.Results, ActionResult{Error: err.Error()})
				return rec, false, err
			}
			msg := fmt.Sprintf("step %d: %s [%d] failed: %v", step, action.Type, action.TargetID, err)
			rec.Results = append(rec.Results, ActionResult{Error: msg})
			r.mem.AddSystemNote("SYSTEM ERROR: " + msg)
			a.log.Warn("action failed", "step", step, "type", action.Type, "err", err)
			break
		}

		rec.Results = append(rec.Results, ActionResult{})
		r.mem.Add(step, snap.URL, action)

		if i < len(actions)-1 && changesPage(action) {
			if url, err := a.browser.CurrentURL(ctx); err != nil || url != snap.URL {
				r.mem.AddSystemNote(fmt.Sprintf(
					"SYSTEM NOTE: The page changed after action %d, the remaining %d actions were skipped.",
					i+1, len(actions)-i-1,
				))
				break
			}
		}
	}

	if decision.StepDone {
		r.plan.advance()
	}
	if decision.Observation != "" {
		r.mem.AddSystemNote(fmt.Sprintf(
			"STATE UPDATE: %s | %s",
			strings.ToUpper(decision.CurrentPhase),
			decision.Observation,
		))
	}

	return rec, false, nil
}
