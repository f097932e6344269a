package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestConfigureRootLevel(t *testing.T) {
	Configure(false)
	assert.Equal(t, log.InfoLevel, Level(""))

	Configure(true)
	assert.Equal(t, log.DebugLevel, Level(""))

	Configure(false)
	assert.Equal(t, log.InfoLevel, Level(""))
}

func TestSilencedNamespacesStayAtError(t *testing.T) {
	for _, v := range []bool{false, true} {
		Configure(v)
		for _, name := range Silenced {
			assert.Equal(t, log.ErrorLevel, Level(name), "namespace %q verbose=%v", name, v)
		}
	}
}

func TestAgentNamespaceFollowsVerbosity(t *testing.T) {
	Configure(false)
	assert.Equal(t, log.WarnLevel, Level(AgentNamespace))

	Configure(true)
	assert.Equal(t, log.InfoLevel, Level(AgentNamespace))
}

func TestOtherNamespacesFollowRoot(t *testing.T) {
	Configure(false)
	l := For("cli-test")
	assert.Equal(t, log.InfoLevel, l.GetLevel())

	Configure(true)
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}

func TestSilencedLoggerDropsWarnings(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Configure(true)
	For("openai").Warn("retrying request")
	assert.Empty(t, buf.String())

	For("openai").Error("request failed")
	assert.Contains(t, buf.String(), "request failed")
}
