package agent

import (
	"fmt"

	"github.com/sjmatta/browser-use-cli/internal/planner"
)

// planState tracks which plan step the run is on.
type planState struct {
	plan    *planner.Plan
	current int
	// loop-guard blocks per plan step
	loopBlocks map[int]int
}

func newPlanState(plan *planner.Plan) *planState {
	return &planState{plan: plan, loopBlocks: make(map[int]int)}
}

func (p *planState) active() bool {
	return p != nil && p.plan != nil && len(p.plan.Steps) > 0
}

func (p *planState) exhausted() bool {
	return p.active() && p.current >= len(p.plan.Steps)
}

func (p *planState) step() (planner.PlanStep, bool) {
	if !p.active() || p.exhausted() {
		return planner.PlanStep{}, false
	}
	return p.plan.Steps[p.current], true
}

func (p *planState) advance() {
	if p.active() && !p.exhausted() {
		p.current++
	}
}

// blocked counts a loop-guard block on the current step and reports whether
// the step should be given up on.
func (p *planState) blocked() bool {
	if !p.active() || p.exhausted() {
		return false
	}
	p.loopBlocks[p.current]++
	return p.loopBlocks[p.current] >= 2
}

// taskPrompt wraps the task with the guidance for the current plan step. An
// open dialog forces interaction mode.
func (p *planState) taskPrompt(task string, hasDialog bool) string {
	if !p.active() {
		return task
	}

	step, ok := p.step()
	if !ok {
		return fmt.Sprintf(
			"GLOBAL USER TASK: %s\n\nPLAN:\n%s\n\n"+
				"All plan steps have been processed. Verify the result on the current page and "+
				"answer with a \"done\" action carrying the final answer.",
			task, p.plan,
		)
	}

	mode := step.Mode
	if hasDialog && mode == planner.ModeNavigation {
		mode = planner.ModeInteraction
	}

	if mode == planner.ModeInteraction {
		return fmt.Sprintf(
			"GLOBAL USER TASK: %s\n\nPLAN:\n%s\n\nCURRENT PLAN STEP %d (interaction): %s\n\n"+
				"You are ALREADY on the relevant page or modal for this step.\n"+
				"- Focus on choosing required options (selects, checkboxes, quantity), reading the requested "+
				"information and pressing the primary confirm/apply button.\n"+
				"- Do NOT navigate to other pages in this mode.\n"+
				"- As soon as the interaction for THIS STEP is clearly completed, set \"step_done\" to true. "+
				"\"step_done\" refers ONLY to this plan step, NOT to the whole task.",
			task, p.plan, step.Index, step.Goal,
		)
	}

	return fmt.Sprintf(
		"GLOBAL USER TASK: %s\n\nPLAN:\n%s\n\nCURRENT PLAN STEP %d (navigation): %s\n\n"+
			"Use the CURRENT PLAN STEP as a high-level description of WHAT should be achieved, "+
			"not as a strict sequence of UI labels or exact paths.\n\n"+
			"In this mode you focus PRIMARILY on navigation:\n"+
			"- Prefer links, buttons, categories and lists that move you closer to this step's goal.\n"+
			"- You MAY type into search fields or filters to refine the visible list of items.\n"+
			"- Do NOT perform complex confirmations or multi-step forms in this mode.\n\n"+
			"Set \"step_done\" to true as soon as the CURRENT PAGE clearly matches this step's goal. "+
			"\"step_done\" refers ONLY to this plan step, NOT to the whole task.",
		task, p.plan, step.Index, step.Goal,
	)
}
