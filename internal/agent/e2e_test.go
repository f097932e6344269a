package agent_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjmatta/browser-use-cli/internal/agent"
	"github.com/sjmatta/browser-use-cli/internal/browser"
	"github.com/sjmatta/browser-use-cli/internal/llm"
)

// Drives a real Chromium against a public page with a real model.
func TestExampleDomainHeading(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser e2e test in short mode")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	b, err := browser.NewManager(browser.LaunchOptions{
		Headless:    true,
		UserDataDir: t.TempDir(),
	})
	require.NoError(t, err)
	defer b.Close()

	client, err := llm.NewOpenAIClient(llm.Options{APIKey: apiKey, Vision: true})
	require.NoError(t, err)

	a, err := agent.New(agent.Settings{
		Task:     "What is the main heading on this page? Answer with the heading text only.",
		LLM:      client,
		Browser:  b,
		StartURL: "https://example.com",
		MaxSteps: 8,
	})
	require.NoError(t, err)

	h, err := a.Run(ctx)
	require.NoError(t, err)

	t.Logf("exit reason: %s, steps: %d, errors: %v", h.ExitReason, len(h.Steps), h.Errors())
	require.True(t, h.IsDone())
	assert.Contains(t, strings.ToLower(h.FinalResult()), "example domain")
}
