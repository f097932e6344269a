package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sjmatta/browser-use-cli/internal/logging"
)

const (
	DefaultModel = "gpt-4o"

	safeDOMLimit = 60000
	maxTokens    = 600
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Vision attaches the page screenshot to every decision request.
	Vision bool

	// MaxRetries bounds retries of rate-limited or 5xx requests.
	MaxRetries     uint64
	InitialBackoff time.Duration
}

type OpenAIClient struct {
	client *openai.Client
	model  string
	vision bool

	maxRetries     uint64
	initialBackoff time.Duration

	log *log.Logger
}

func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 4
	}
	initial := opts.InitialBackoff
	if initial <= 0 {
		initial = 3 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(cfg),
		model:          model,
		vision:         opts.Vision,
		maxRetries:     maxRetries,
		initialBackoff: initial,
		log:            logging.For("openai"),
	}, nil
}

// API exposes the underlying client so the planner can share credentials.
func (c *OpenAIClient) API() *openai.Client {
	return c.client
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) DecideAction(ctx context.Context, input DecisionInput) (*DecisionOutput, error) {
	var sb strings.Builder
	sb.WriteString("TASK: " + input.Task + "\n")
	sb.WriteString("URL: " + input.CurrentURL + "\n")
	if input.MaxActions > 0 {
		sb.WriteString(fmt.Sprintf("MAX ACTIONS THIS STEP: %d\n", input.MaxActions))
	}

	if input.History != "" {
		sb.WriteString("HISTORY:\n" + input.History + "\n")
	}

	dom := input.DOMTree
	if len(dom) > safeDOMLimit {
		dom = dom[:safeDOMLimit] + "\n...[TRUNCATED]"
	}
	sb.WriteString("\nDOM:\n" + dom)

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: sb.String()},
	}

	if c.vision && input.ScreenshotBase64 != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/jpeg;base64," + input.ScreenshotBase64,
			},
		})
	}

	resp, err := c.createChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: visionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}

	return parseDecision(resp.Choices[0].Message.Content)
}

func parseDecision(content string) (*DecisionOutput, error) {
	raw := strings.TrimSpace(content)
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "json"))

	var out DecisionOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("json parse error: %w | content: %s", err, content)
	}

	if out.Action != nil {
		normalizeActionType(out.Action)
	}
	for i := range out.Actions {
		normalizeActionType(&out.Actions[i])
	}
	return &out, nil
}

func normalizeActionType(a *Action) {
	switch strings.ToLower(strings.TrimSpace(string(a.Type))) {
	case "click":
		a.Type = ActionClick
	case "type", "input", "input_text":
		a.Type = ActionTypeInput
	case "scroll_down", "scroll":
		a.Type = ActionScroll
	case "scroll_up":
		a.Type = ActionScrollUp
	case "navigate", "go_to_url", "open":
		a.Type = ActionNavigate
	case "go_back", "back":
		a.Type = ActionGoBack
	case "done", "finish":
		a.Type = ActionDone
	default:
		a.Type = ActionScroll
	}
}
