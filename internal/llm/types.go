package llm

import "context"

type ActionType string

const (
	ActionClick     ActionType = "click"
	ActionTypeInput ActionType = "type"
	ActionScroll    ActionType = "scroll_down"
	ActionScrollUp  ActionType = "scroll_up"
	ActionNavigate  ActionType = "navigate"
	ActionGoBack    ActionType = "go_back"
	ActionDone      ActionType = "done"
)

type Action struct {
	Type          ActionType `json:"type"`
	TargetID      int        `json:"target_id,omitempty"`
	Text          string     `json:"text,omitempty"`
	URL           string     `json:"url,omitempty"`
	Submit        bool       `json:"submit,omitempty"`
	IsDestructive bool       `json:"is_destructive,omitempty"`
}

type DecisionInput struct {
	Task             string
	DOMTree          string
	CurrentURL       string
	History          string // short description of previous steps
	ScreenshotBase64 string
	MaxActions       int
}

type DecisionOutput struct {
	CurrentPhase string   `json:"current_phase"`
	Observation  string   `json:"observation"`
	Thought      string   `json:"thought"`
	StepDone     bool     `json:"step_done"`
	Action       *Action  `json:"action,omitempty"`
	Actions      []Action `json:"actions,omitempty"`
}

// Planned returns the actions of the decision in execution order. A single
// "action" object is accepted for models that ignore the list format.
func (d *DecisionOutput) Planned() []Action {
	if d == nil {
		return nil
	}
	if len(d.Actions) > 0 {
		return d.Actions
	}
	if d.Action != nil {
		return []Action{*d.Action}
	}
	return nil
}

type SummaryInput struct {
	Task        string
	ExitReason  string
	FinalURL    string
	FinalAction Action
	Duration    string
	Steps       []string
}

type Client interface {
	DecideAction(ctx context.Context, input DecisionInput) (*DecisionOutput, error)
	SummarizeRun(ctx context.Context, input SummaryInput) (string, error)
}
