// Package logging configures the process-wide loggers.
//
// Every component asks for a named logger with For. Names listed in Silenced
// belong to chatty dependencies and are pinned to error level: they own an
// independent logger, so changing the root level never reaches them.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// AgentNamespace is the logger used by the browser agent engine.
const AgentNamespace = "agent"

const timeFormat = "2006-01-02 15:04:05"

// Silenced lists the third-party namespaces that only report errors.
var Silenced = []string{
	"playwright",
	"chromedp",
	"cdproto",
	"openai",
	"http",
	"readline",
	"glamour",
}

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	verbose bool
	root              = newLogger("", log.InfoLevel)
	named             = make(map[string]*log.Logger)
)

func newLogger(prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Prefix:          prefix,
		Level:           level,
	})
}

// Configure sets the root level (debug when verbose, info otherwise) and
// re-applies the per-namespace levels.
func Configure(v bool) {
	mu.Lock()
	defer mu.Unlock()

	verbose = v
	root.SetLevel(rootLevel())
	log.SetDefault(root)

	for name := range named {
		named[name].SetLevel(levelFor(name))
	}
	for _, name := range Silenced {
		if _, ok := named[name]; !ok {
			named[name] = newLogger(name, log.ErrorLevel)
		}
	}
}

// SetOutput redirects the root logger and every named logger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	root.SetOutput(w)
	for _, l := range named {
		l.SetOutput(w)
	}
}

// Root returns the root logger.
func Root() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root
}

// For returns the logger for a namespace, creating it on first use.
func For(name string) *log.Logger {
	if name == "" {
		return Root()
	}

	mu.Lock()
	defer mu.Unlock()

	if l, ok := named[name]; ok {
		return l
	}
	l := newLogger(name, levelFor(name))
	named[name] = l
	return l
}

// Level reports the current level of a namespace ("" is the root).
func Level(name string) log.Level {
	if name == "" {
		return Root().GetLevel()
	}
	return For(name).GetLevel()
}

// IsSilenced reports whether a namespace is pinned to error level.
func IsSilenced(name string) bool {
	for _, s := range Silenced {
		if s == name {
			return true
		}
	}
	return false
}

func rootLevel() log.Level {
	if verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func levelFor(name string) log.Level {
	switch {
	case IsSilenced(name):
		return log.ErrorLevel
	case name == AgentNamespace:
		if verbose {
			return log.InfoLevel
		}
		return log.WarnLevel
	default:
		return rootLevel()
	}
}
