// Package cli wires flags, input, the browser agent and Markdown output into
// the browse command.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sjmatta/browser-use-cli/internal/config"
	"github.com/sjmatta/browser-use-cli/internal/logging"
)

// Deps are the process handles the command talks to.
type Deps struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Piped is true when stdin is not a terminal.
	Piped     bool
	StdoutTTY bool
	StderrTTY bool
	// Width is the Markdown wrap width; zero means the default.
	Width int

	Prompter Prompter
	Factory  Factory
}

// DefaultDeps binds the command to the process stdio.
func DefaultDeps() Deps {
	return Deps{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Piped:     !IsTerminal(os.Stdin),
		StdoutTTY: IsTerminal(os.Stdout),
		StderrTTY: IsTerminal(os.Stderr),
		Width:     wrapWidth(os.Stdout),
		Prompter:  NewReadlinePrompter(os.Stdin, os.Stdout, os.Stderr),
		Factory:   NewAgent,
	}
}

// Execute runs the browse command against the process stdio.
func Execute(ctx context.Context) error {
	return NewRootCommand(DefaultDeps()).ExecuteContext(ctx)
}

func NewRootCommand(deps Deps) *cobra.Command {
	v := config.New()
	var (
		configFile string
		envFile    string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Let an AI agent drive a browser to answer a query",
		Long: `browse reads a task from piped stdin or an interactive prompt, hands it to a
browser automation agent backed by an OpenAI model and prints the final
answer as Markdown.

Examples:
  echo "find weather in Paris" | browse
  browse -v -m 5 --start-url https://www.bbc.com/weather`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			if err := config.ReadFile(v, configFile); err != nil {
				return err
			}

			logging.SetOutput(deps.Stderr)
			logging.Configure(v.GetBool(config.KeyVerbose))

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			return run(cmd.Context(), deps, cfg)
		},
	}

	flags := cmd.Flags()
	flags.BoolP("verbose", "v", false, "enable verbose logging")
	flags.IntP("max-actions", "m", 0, "maximum number of actions per step")
	flags.Int("max-steps", config.DefaultMaxSteps, "maximum number of agent steps")
	flags.String("model", config.DefaultModel, "OpenAI model name")
	flags.String("start-url", "", "page to open before the first step")
	flags.Bool("headless", false, "run the browser without a window")
	flags.String("cdp-url", "", "attach to a running Chrome at this DevTools URL instead of launching one")
	flags.String("user-data-dir", config.DefaultUserDataDir, "browser profile directory")
	flags.Bool("plan", false, "build a high-level plan before acting")
	flags.Bool("report", false, "print an LLM-written run report after the result")
	flags.Bool("vision", true, "send page screenshots to the model")
	flags.StringVar(&configFile, "config", "", "config file (YAML)")
	flags.StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded at startup")

	bindFlags(v, cmd)

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for key, flag := range map[string]string{
		config.KeyVerbose:     "verbose",
		config.KeyMaxActions:  "max-actions",
		config.KeyMaxSteps:    "max-steps",
		config.KeyModel:       "model",
		config.KeyStartURL:    "start-url",
		config.KeyHeadless:    "headless",
		config.KeyCDPURL:      "cdp-url",
		config.KeyUserDataDir: "user-data-dir",
		config.KeyPlan:        "plan",
		config.KeyReport:      "report",
		config.KeyVision:      "vision",
	} {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func run(ctx context.Context, deps Deps, cfg config.Config) error {
	logger := logging.Root()

	task, err := ReadTask(deps.Stdin, deps.Piped, deps.Prompter)
	if err != nil {
		return err
	}
	logger.Debug("task", "text", task)

	status := NewSpinner(deps.Stderr, deps.StderrTTY)
	history, err := NewBrowserAgent(deps.Factory, cfg, status, logger).Run(ctx, task)
	if err != nil {
		return err
	}

	presenter, err := NewPresenter(deps.Stdout, deps.StdoutTTY, deps.Width, logging.For("output"))
	if err != nil {
		return err
	}
	return presenter.Present(history, cfg.Report)
}
