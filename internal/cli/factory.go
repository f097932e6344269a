package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjmatta/browser-use-cli/internal/agent"
	"github.com/sjmatta/browser-use-cli/internal/browser"
	"github.com/sjmatta/browser-use-cli/internal/config"
	"github.com/sjmatta/browser-use-cli/internal/llm"
	"github.com/sjmatta/browser-use-cli/internal/logging"
	"github.com/sjmatta/browser-use-cli/internal/planner"
)

// NewAgent is the production Factory: an OpenAI client, a Playwright browser
// (or a CDP attachment when cdp_url is set) and an optional planner.
func NewAgent(_ context.Context, cfg config.Config, task string) (Runner, func(), error) {
	if strings.TrimSpace(task) == "" {
		return nil, nil, agent.ErrEmptyTask
	}

	client, err := llm.NewOpenAIClient(llm.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Vision:  cfg.Vision,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create llm client: %w", err)
	}

	driver, err := openBrowser(cfg)
	if err != nil {
		return nil, nil, err
	}

	settings := agent.Settings{
		Task:              task,
		LLM:               client,
		Browser:           driver,
		StartURL:          cfg.StartURL,
		MaxSteps:          cfg.MaxSteps,
		MaxActionsPerStep: cfg.MaxActions,
		Report:            cfg.Report,
		Confirm:           agent.ConfirmOnTTY,
	}
	if cfg.Plan {
		settings.Planner = planner.NewOpenAIPlanner(client.API(), "")
	}

	a, err := agent.New(settings)
	if err != nil {
		_ = driver.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := driver.Close(); err != nil {
			logging.Root().Warn("failed to close browser", "err", err)
		}
	}
	return a, cleanup, nil
}

func openBrowser(cfg config.Config) (browser.Driver, error) {
	if cfg.CDPURL != "" {
		d, err := browser.NewCDP(cfg.CDPURL)
		if err != nil {
			return nil, fmt.Errorf("attach browser: %w", err)
		}
		return d, nil
	}

	d, err := browser.NewManager(browser.LaunchOptions{
		Headless:    cfg.Headless,
		UserDataDir: cfg.UserDataDir,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return d, nil
}
