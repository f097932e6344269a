package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	plan := &Plan{Steps: []PlanStep{
		{Goal: "Open a weather site", Mode: ""},
		{Index: 4, Goal: "  ", Mode: ModeNavigation},
		{Index: 7, Goal: "Read the forecast", Mode: "READING"},
		{Goal: "Pick the city", Mode: " Interaction "},
	}}

	normalize(plan)

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, PlanStep{Index: 1, Goal: "Open a weather site", Mode: ModeNavigation}, plan.Steps[0])
	assert.Equal(t, PlanStep{Index: 2, Goal: "Read the forecast", Mode: ModeInteraction}, plan.Steps[1])
	assert.Equal(t, PlanStep{Index: 3, Goal: "Pick the city", Mode: ModeInteraction}, plan.Steps[2])
}

func TestNormalizeCapsSteps(t *testing.T) {
	plan := &Plan{}
	for i := 0; i < MaxSteps+3; i++ {
		plan.Steps = append(plan.Steps, PlanStep{Goal: "visit page", Mode: ModeNavigation})
	}

	normalize(plan)

	require.Len(t, plan.Steps, MaxSteps)
	assert.Equal(t, MaxSteps, plan.Steps[MaxSteps-1].Index)
}

func TestPlanString(t *testing.T) {
	var empty *Plan
	assert.Empty(t, empty.String())

	plan := &Plan{Steps: []PlanStep{
		{Index: 1, Goal: "search weather", Mode: ModeNavigation},
		{Index: 2, Goal: "read it", Mode: ModeInteraction},
	}}
	assert.Equal(t, "1. [navigation] search weather\n2. [interaction] read it", plan.String())
}

func TestBuildPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := `{"steps":[{"index":1,"goal":"search weather in Paris","mode":"navigation"},{"goal":"read temperature"}]}`
		body, _ := json.Marshal(map[string]any{
			"id":     "chatcmpl-plan",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	p := NewOpenAIPlanner(openai.NewClientWithConfig(cfg), "")
	plan, err := p.BuildPlan(context.Background(), "find weather in Paris")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, ModeNavigation, plan.Steps[0].Mode)
	assert.Equal(t, 2, plan.Steps[1].Index)
	assert.Equal(t, ModeInteraction, plan.Steps[1].Mode)
}

func TestBuildPlanWithoutSteps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"id":     "chatcmpl-plan",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": `{"steps":[{"goal":" "}]}`},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	_, err := NewOpenAIPlanner(openai.NewClientWithConfig(cfg), "").BuildPlan(context.Background(), "task")
	assert.ErrorIs(t, err, ErrEmptyPlan)
}
