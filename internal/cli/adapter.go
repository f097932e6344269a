package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sjmatta/browser-use-cli/internal/agent"
	"github.com/sjmatta/browser-use-cli/internal/config"
)

// Runner is the single blocking call the adapter makes.
type Runner interface {
	Run(ctx context.Context) (*agent.History, error)
}

// Factory builds a runner for the task. The returned cleanup releases the
// browser and is always non-nil when err is nil.
type Factory func(ctx context.Context, cfg config.Config, task string) (Runner, func(), error)

// BrowserAgent runs the browser agent once per task.
type BrowserAgent struct {
	factory Factory
	cfg     config.Config
	status  *Spinner
	log     *log.Logger
}

func NewBrowserAgent(factory Factory, cfg config.Config, status *Spinner, logger *log.Logger) *BrowserAgent {
	return &BrowserAgent{
		factory: factory,
		cfg:     cfg,
		status:  status,
		log:     logger,
	}
}

// Run builds the agent, runs it under the status spinner and logs every error
// reported by the history. Only errors from building or running the agent are
// returned.
func (b *BrowserAgent) Run(ctx context.Context, task string) (*agent.History, error) {
	runner, cleanup, err := b.factory(ctx, b.cfg, task)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	defer cleanup()

	if b.status != nil {
		b.status.Start()
	}
	history, err := runner.Run(ctx)
	if b.status != nil {
		b.status.Stop()
	}

	for _, e := range history.Errors() {
		b.log.Error(e)
	}

	if err != nil {
		return history, fmt.Errorf("run agent: %w", err)
	}
	return history, nil
}
