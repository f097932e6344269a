package agent

import (
	"fmt"
	"strings"

	"github.com/sjmatta/browser-use-cli/internal/llm"
)

// StepMemory keeps a short rolling history for the prompt, the full history
// for the report, and detects loops both on a single repeated action and on
// repeated action patterns.
type StepMemory struct {
	lines    []string
	maxLines int

	fullLines []string

	// same action several times in a row
	lastActionKey string
	repeatCount   int
	loopThreshold int

	// patterns such as "click 250 -> click 5" coming back
	recentKeys    []string
	maxRecent     int
	patternLen    int
	patternCounts map[string]int

	loopTriggered bool
}

func NewStepMemory(maxLines, loopThreshold int) *StepMemory {
	if maxLines <= 0 {
		maxLines = 5
	}
	if loopThreshold <= 1 {
		loopThreshold = 2
	}
	return &StepMemory{
		maxLines:      maxLines,
		loopThreshold: loopThreshold,
		maxRecent:     10,
		patternLen:    2,
		patternCounts: make(map[string]int),
	}
}

// type + URL + target is enough to tell the same button on the same page.
// Typing different text into the same field is a different action.
func (m *StepMemory) makeKey(url string, action llm.Action) string {
	key := fmt.Sprintf("%s|%s|%d", action.Type, url, action.TargetID)
	if action.Type == llm.ActionTypeInput || action.Type == llm.ActionNavigate {
		key += "|" + action.Text + action.URL
	}
	return key
}

// Add records a successfully executed action.
func (m *StepMemory) Add(step int, url string, action llm.Action) {
	line := fmt.Sprintf(
		"step=%d url=%s action=%s target=%d text=%q",
		step, url, action.Type, action.TargetID, action.Text,
	)
	m.push(line)

	key := m.makeKey(url, action)

	if key == m.lastActionKey {
		m.repeatCount++
	} else {
		m.lastActionKey = key
		m.repeatCount = 1
	}

	m.recentKeys = append(m.recentKeys, key)
	if len(m.recentKeys) > m.maxRecent {
		m.recentKeys = m.recentKeys[len(m.recentKeys)-m.maxRecent:]
	}

	if m.patternLen > 1 && len(m.recentKeys) >= m.patternLen {
		seq := m.recentKeys[len(m.recentKeys)-m.patternLen:]
		m.patternCounts[strings.Join(seq, "->")]++
	}
}

// ShouldBlock reports whether action would close a loop, and the note to
// feed back to the model.
func (m *StepMemory) ShouldBlock(url string, action llm.Action) (bool, string) {
	// scrolling the same page repeatedly is how long pages get read
	if action.Type == llm.ActionScroll || action.Type == llm.ActionScrollUp || action.Type == llm.ActionDone {
		return false, ""
	}

	key := m.makeKey(url, action)

	if key == m.lastActionKey && m.repeatCount >= m.loopThreshold {
		return true, fmt.Sprintf(
			"SYSTEM NOTE: The same action (%s) has already been executed %d times in a row. "+
				"Do NOT repeat it again. Choose a different action or finish if the goal is already achieved.",
			key, m.repeatCount,
		)
	}

	if m.patternLen > 1 && len(m.recentKeys) >= m.patternLen-1 {
		seq := append([]string{}, m.recentKeys[len(m.recentKeys)-(m.patternLen-1):]...)
		seq = append(seq, key)

		pattern := strings.Join(seq, "->")
		if m.patternCounts[pattern] >= 1 {
			return true, fmt.Sprintf(
				"SYSTEM NOTE: The sequence of %d actions (%s) has already occurred before. "+
					"Do NOT repeat this pattern. Try a different action (for example, moving to the next stage of the flow or finishing).",
				m.patternLen, pattern,
			)
		}
	}

	return false, ""
}

// AddSystemNote appends a note for the model to the history.
func (m *StepMemory) AddSystemNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	m.push(note)
}

func (m *StepMemory) push(line string) {
	m.fullLines = append(m.fullLines, line)

	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

func (m *StepMemory) HistoryLines() []string {
	if len(m.lines) == 0 {
		return nil
	}
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *StepMemory) HistoryString() string {
	return strings.Join(m.lines, "\n")
}

func (m *StepMemory) FullHistory() []string {
	if len(m.fullLines) == 0 {
		return nil
	}
	out := make([]string, len(m.fullLines))
	copy(out, m.fullLines)
	return out
}

func (m *StepMemory) MarkLoopTriggered() {
	m.loopTriggered = true
}

func (m *StepMemory) LoopTriggered() bool {
	return m.loopTriggered
}
