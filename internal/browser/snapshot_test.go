package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector(t *testing.T) {
	assert.Equal(t, "[data-ai-id='12']", Selector(12))
}

func TestHasDialog(t *testing.T) {
	assert.False(t, (*PageSnapshot)(nil).HasDialog())
	assert.False(t, (&PageSnapshot{Tree: "[1] <a label=\"Home\">"}).HasDialog())
	assert.True(t, (&PageSnapshot{Tree: ActiveDialogHeader + "\n[1] <button>"}).HasDialog())
	assert.True(t, (&PageSnapshot{Tree: "[4] <button label=\"OK\" context=\"dialog\">"}).HasDialog())
}

func TestSnapshotScriptIsFullyFormatted(t *testing.T) {
	assert.NotContains(t, snapshotScript, "%!")
	assert.Contains(t, snapshotScript, "res.length > 100")
	assert.Contains(t, snapshotScript, "depth > 20")
	assert.Contains(t, snapshotScript, `"=== ACTIVE DIALOG ==="`)
}

func TestHighlightScriptQuotesSelector(t *testing.T) {
	assert.Contains(t, highlightScript(5), `document.querySelector("[data-ai-id='5']")`)
}
