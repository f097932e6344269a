package browser

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/sjmatta/browser-use-cli/internal/logging"
)

// CDP drives a new tab in an already running Chrome reached over the
// DevTools protocol, e.g. one started with --remote-debugging-port=9222.
type CDP struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	log *log.Logger
}

var _ Driver = (*CDP)(nil)

func NewCDP(url string) (*CDP, error) {
	l := logging.For("chromedp")

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), url)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.Debugf),
		chromedp.WithDebugf(l.Debugf),
		chromedp.WithErrorf(logging.For("cdproto").Errorf),
	)

	// the first Run attaches to the browser and opens the tab
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("attach to %s: %w", url, err)
	}

	return &CDP{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		log:         l,
	}, nil
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (c *CDP) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(c.ctx, actionTimeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *CDP) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return nil
}

func (c *CDP) Snapshot(ctx context.Context) (*PageSnapshot, error) {
	var (
		tree  string
		title string
		url   string
	)
	err := c.run(ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate("("+snapshotScript+")()", &tree),
		chromedp.Title(&title),
		chromedp.Location(&url),
	)
	if err != nil {
		return nil, fmt.Errorf("js evaluation failed: %w", err)
	}

	var buf []byte
	err = c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatJpeg).
			WithQuality(70).
			Do(ctx)
		return err
	}))

	var screenshot string
	if err == nil {
		screenshot = base64.StdEncoding.EncodeToString(buf)
	} else {
		c.log.Warn("failed to take screenshot", "err", err)
	}

	return &PageSnapshot{
		URL:              url,
		Title:            title,
		Tree:             tree,
		ScreenshotBase64: screenshot,
	}, nil
}

func (c *CDP) Click(ctx context.Context, id int) error {
	sel := Selector(id)
	return c.run(ctx,
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery),
	)
}

func (c *CDP) Type(ctx context.Context, id int, text string, submit bool) error {
	sel := Selector(id)
	actions := []chromedp.Action{
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	}
	if submit {
		actions = append(actions, chromedp.SendKeys(sel, kb.Enter, chromedp.ByQuery))
	}
	return c.run(ctx, actions...)
}

func (c *CDP) Scroll(ctx context.Context, dy int) error {
	return c.run(ctx, chromedp.Evaluate(scrollScript(dy), nil))
}

func (c *CDP) GoBack(ctx context.Context) error {
	return c.run(ctx, chromedp.NavigateBack())
}

func (c *CDP) Highlight(ctx context.Context, id int) {
	_ = c.run(ctx, chromedp.Evaluate(highlightScript(id), nil))
}

func (c *CDP) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := c.run(ctx, chromedp.Location(&url))
	return url, err
}

// Close closes the tab; the remote browser keeps running.
func (c *CDP) Close() error {
	c.cancel()
	c.allocCancel()
	return nil
}
