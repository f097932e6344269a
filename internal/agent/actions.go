package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sjmatta/browser-use-cli/internal/browser"
	"github.com/sjmatta/browser-use-cli/internal/llm"
)

const highlightPause = 300 * time.Millisecond

// changesPage reports whether the action may replace the element ids of the
// current snapshot.
func changesPage(a llm.Action) bool {
	switch a.Type {
	case llm.ActionClick, llm.ActionNavigate, llm.ActionGoBack:
		return true
	case llm.ActionTypeInput:
		return a.Submit
	default:
		return false
	}
}

func (a *Agent) executeAction(ctx context.Context, action llm.Action, currentURL string) error {
	switch action.Type {
	case llm.ActionScroll:
		return a.browser.Scroll(ctx, browser.DefaultScrollStep)
	case llm.ActionScrollUp:
		return a.browser.Scroll(ctx, -browser.DefaultScrollStep)
	case llm.ActionGoBack:
		return a.browser.GoBack(ctx)
	case llm.ActionNavigate:
		target := normalizeURL(currentURL, action.URL)
		if target == "" {
			return fmt.Errorf("navigate action without url")
		}
		return a.browser.Navigate(ctx, target)
	case llm.ActionDone:
		return nil
	}

	if action.TargetID <= 0 {
		return fmt.Errorf("%s action without a valid target_id", action.Type)
	}

	if action.IsDestructive && a.confirm != nil && !a.confirm(action) {
		return fmt.Errorf("%w: %s [%d]", ErrDeclined, action.Type, action.TargetID)
	}

	a.browser.Highlight(ctx, action.TargetID)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(highlightPause):
	}

	switch action.Type {
	case llm.ActionClick:
		a.log.Debug("clicking", "selector", browser.Selector(action.TargetID))
		return a.browser.Click(ctx, action.TargetID)
	case llm.ActionTypeInput:
		a.log.Debug("typing", "selector", browser.Selector(action.TargetID), "text", action.Text, "submit", action.Submit)
		return a.browser.Type(ctx, action.TargetID, action.Text, action.Submit)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

// ConfirmOnTTY asks on the controlling terminal before a destructive action.
// Without a terminal the action is declined.
func ConfirmOnTTY(action llm.Action) bool {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Destructive action cancelled (no interactive TTY).")
		return false
	}
	defer tty.Close()

	return confirm(tty, tty, action)
}

func confirm(in io.Reader, out io.Writer, action llm.Action) bool {
	fmt.Fprintln(out, "SECURITY: the model suggests a DESTRUCTIVE action (payment, deletion, etc.).")
	fmt.Fprintf(out, "   Planned action: %s [%d] %q\n", action.Type, action.TargetID, action.Text)
	fmt.Fprint(out, "   Allow this action? (y/n): ")

	reader := bufio.NewReader(in)
	for {
		input, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(input))

		switch answer {
		case "y", "yes":
			fmt.Fprintln(out, "Destructive action approved.")
			return true
		case "n", "no", "":
			fmt.Fprintln(out, "Destructive action cancelled.")
			return false
		}
		if err != nil {
			fmt.Fprintln(out, "\nDestructive action cancelled (read error).")
			return false
		}

		fmt.Fprint(out, "   Please answer 'y' or 'n': ")
	}
}
