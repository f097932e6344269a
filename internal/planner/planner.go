// Package planner splits a task into high-level steps before the agent acts.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sjmatta/browser-use-cli/internal/logging"
)

const (
	ModeNavigation  = "navigation"
	ModeInteraction = "interaction"
)

type PlanStep struct {
	Index int    `json:"index"`
	Goal  string `json:"goal"`
	Mode  string `json:"mode"`
}

type Plan struct {
	Steps []PlanStep `json:"steps"`
}

// String renders the plan as numbered lines for prompts and logs.
func (p *Plan) String() string {
	if p == nil || len(p.Steps) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range p.Steps {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", s.Index, s.Mode, s.Goal)
	}
	return strings.TrimRight(sb.String(), "\n")
}

type Client interface {
	BuildPlan(ctx context.Context, task string) (*Plan, error)
}

// OpenAIPlanner builds plans with a small chat model.
type OpenAIPlanner struct {
	client *openai.Client
	model  string
	log    *log.Logger
}

func NewOpenAIPlanner(client *openai.Client, model string) *OpenAIPlanner {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIPlanner{client: client, model: model, log: logging.For("planner")}
}

// MaxSteps caps the plan; extra steps from the model are dropped.
const MaxSteps = 7

var ErrEmptyPlan = errors.New("planner returned no usable steps")

const plannerSystemPrompt = `
You plan work for an agent that answers questions by driving a web browser.

Split the user's request into 2-7 ordered, high-level steps. Each step is an
object with:
- "index": position, starting at 1
- "goal": the outcome of the step, not the exact buttons to press
- "mode": "navigation" or "interaction"

Use "navigation" for getting somewhere: opening a site, searching, following
links, picking a category or a result from a list.
Use "interaction" for work on the page that is already open: filling a form,
choosing options, closing a dialog, reading the answer off the page.

The last step should read or confirm the answer the user asked for.

Reply with JSON only: {"steps": [{"index": 1, "goal": "...", "mode": "navigation"}]}
`

var navigationHints = []string{"search", "go to", "open", "navigate", "visit", "find the page"}

func (p *OpenAIPlanner) BuildPlan(ctx context.Context, task string) (*Plan, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: plannerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "User request:\n" + task},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("planner request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyPlan
	}

	content := resp.Choices[0].Message.Content
	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		p.log.Debug("unparsable plan", "content", content)
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	normalize(&plan)
	if len(plan.Steps) == 0 {
		return nil, ErrEmptyPlan
	}
	return &plan, nil
}

// normalize drops empty goals, renumbers steps from 1, caps the plan at
// MaxSteps and guesses unknown modes from the goal text.
func normalize(plan *Plan) {
	steps := plan.Steps[:0]
	for _, s := range plan.Steps {
		s.Goal = strings.TrimSpace(s.Goal)
		if s.Goal == "" {
			continue
		}
		if len(steps) == MaxSteps {
			break
		}
		s.Index = len(steps) + 1
		s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
		if s.Mode != ModeNavigation && s.Mode != ModeInteraction {
			s.Mode = guessMode(s.Goal)
		}
		steps = append(steps, s)
	}
	plan.Steps = steps
}

func guessMode(goal string) string {
	goal = strings.ToLower(goal)
	for _, h := range navigationHints {
		if strings.Contains(goal, h) {
			return ModeNavigation
		}
	}
	return ModeInteraction
}
