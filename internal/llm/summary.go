package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// maxSummarySteps bounds the step lines sent for a run report; older lines
// are dropped first.
const maxSummarySteps = 60

var errEmptySummary = errors.New("model returned an empty summary")

// SummarizeRun asks the model for a short Markdown report of a finished run.
func (c *OpenAIClient) SummarizeRun(ctx context.Context, input SummaryInput) (string, error) {
	resp, err := c.createChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summaryMessage(input)},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize run: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptySummary
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errEmptySummary
	}
	return summary, nil
}

func summaryMessage(in SummaryInput) string {
	var b strings.Builder

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s:\n%s\n\n", name, value)
		}
	}
	field("TASK", in.Task)
	field("EXIT_REASON", in.ExitReason)
	field("DURATION", in.Duration)
	field("FINAL_URL", in.FinalURL)
	if in.FinalAction.Type != "" {
		field("FINAL_ACTION", fmt.Sprintf("%s [%d] %q",
			in.FinalAction.Type, in.FinalAction.TargetID, in.FinalAction.Text))
	}

	steps := in.Steps
	if len(steps) == 0 {
		return b.String()
	}

	b.WriteString("STEPS:\n")
	if dropped := len(steps) - maxSummarySteps; dropped > 0 {
		fmt.Fprintf(&b, "(%d earlier lines omitted)\n", dropped)
		steps = steps[dropped:]
	}
	b.WriteString(strings.Join(steps, "\n"))
	b.WriteString("\n")

	return b.String()
}
