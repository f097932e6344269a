package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sjmatta/browser-use-cli/internal/browser"
	"github.com/sjmatta/browser-use-cli/internal/llm"
	"github.com/sjmatta/browser-use-cli/internal/planner"
)

var _ browser.Driver = (*fakeDriver)(nil)

type fakeDriver struct {
	mu sync.Mutex

	url  string
	tree string

	// clickURL, when set, becomes the current URL after any click
	clickURL string
	clickErr error
	snapErr  error

	navigated []string
	clicked   []int
	typed     []string
	scrolled  []int
	closed    bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{url: "https://example.com/", tree: "[1] <a label=\"Home\">"}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	d.url = url
	return nil
}

func (d *fakeDriver) Snapshot(ctx context.Context) (*browser.PageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapErr != nil {
		return nil, d.snapErr
	}
	return &browser.PageSnapshot{URL: d.url, Title: "Example", Tree: d.tree}, nil
}

func (d *fakeDriver) Click(_ context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.clickErr != nil {
		return d.clickErr
	}
	d.clicked = append(d.clicked, id)
	if d.clickURL != "" {
		d.url = d.clickURL
	}
	return nil
}

func (d *fakeDriver) Type(_ context.Context, id int, text string, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typed = append(d.typed, fmt.Sprintf("%d:%s", id, text))
	return nil
}

func (d *fakeDriver) Scroll(_ context.Context, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrolled = append(d.scrolled, dy)
	return nil
}

func (d *fakeDriver) GoBack(context.Context) error { return nil }

func (d *fakeDriver) Highlight(context.Context, int) {}

func (d *fakeDriver) CurrentURL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

// fakeLLM replays decisions in order and repeats the last one.
type fakeLLM struct {
	mu sync.Mutex

	decisions []*llm.DecisionOutput
	err       error
	summary   string

	inputs    []llm.DecisionInput
	summaries []llm.SummaryInput
}

func (f *fakeLLM) DecideAction(ctx context.Context, in llm.DecisionInput) (*llm.DecisionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.decisions) == 0 {
		return nil, errors.New("no decisions scripted")
	}
	d := f.decisions[0]
	if len(f.decisions) > 1 {
		f.decisions = f.decisions[1:]
	}
	return d, nil
}

func (f *fakeLLM) SummarizeRun(_ context.Context, in llm.SummaryInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, in)
	return f.summary, nil
}

type fakePlanner struct {
	plan *planner.Plan
	err  error
}

func (p *fakePlanner) BuildPlan(context.Context, string) (*planner.Plan, error) {
	return p.plan, p.err
}

func decide(actions ...llm.Action) *llm.DecisionOutput {
	return &llm.DecisionOutput{Thought: "next", Actions: actions}
}

func done(text string) llm.Action {
	return llm.Action{Type: llm.ActionDone, Text: text}
}
