package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"

	"github.com/sjmatta/browser-use-cli/internal/logging"
)

const (
	LoadStateLoad             = "load"
	LoadStateDomcontentloaded = "domcontentloaded"
	LoadStateNetworkidle      = "networkidle"
)

type LaunchOptions struct {
	Headless    bool
	UserDataDir string
	// Verbose lets the driver installer print its progress.
	Verbose bool
}

// Manager drives a Chromium persistent context launched through Playwright.
type Manager struct {
	pw      *playwright.Playwright
	Context playwright.BrowserContext
	Page    playwright.Page

	log *log.Logger
}

var _ Driver = (*Manager)(nil)

func NewManager(opts LaunchOptions) (*Manager, error) {
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  opts.Verbose,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	userDataDir, err := filepath.Abs(opts.UserDataDir)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("resolve user data dir: %w", err)
	}

	launch := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
		},
	}
	if opts.Headless {
		launch.Viewport = &playwright.Size{Width: 1280, Height: 720}
	} else {
		// no viewport emulation, the window is maximized instead
		launch.NoViewport = playwright.Bool(true)
		launch.Args = append(launch.Args, "--start-maximized", "--window-position=0,0")
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(userDataDir, launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = bctx.NewPage()
		if err != nil {
			_ = bctx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultTimeout(float64(pageTimeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(pageTimeout.Milliseconds()))

	return &Manager{
		pw:      pw,
		Context: bctx,
		Page:    page,
		log:     logging.For("playwright"),
	}, nil
}

func (m *Manager) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return nil
}

func (m *Manager) Snapshot(ctx context.Context) (*PageSnapshot, error) {
	if m == nil || m.Page == nil {
		return nil, fmt.Errorf("page is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := playwright.LoadState(LoadStateNetworkidle)
	m.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   &state,
		Timeout: playwright.Float(float64(actionTimeout.Milliseconds())),
	})

	result, err := m.Page.Evaluate(snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("js evaluation failed: %w", err)
	}
	tree, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("expected string from js, got %T", result)
	}

	title, _ := m.Page.Title()

	// viewport only, JPEG keeps the vision payload small
	var screenshot string
	if buf, err := m.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
		Type:     playwright.ScreenshotTypeJpeg,
		Quality:  playwright.Int(70),
	}); err == nil {
		screenshot = base64.StdEncoding.EncodeToString(buf)
	} else {
		m.log.Warn("failed to take screenshot", "err", err)
	}

	return &PageSnapshot{
		URL:              m.Page.URL(),
		Title:            title,
		Tree:             tree,
		ScreenshotBase64: screenshot,
	}, nil
}

func (m *Manager) Click(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	selector := Selector(id)
	if err := m.Page.Locator(selector).First().ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return m.Page.Click(selector)
}

func (m *Manager) Type(ctx context.Context, id int, text string, submit bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	selector := Selector(id)
	if err := m.Page.Fill(selector, text); err != nil {
		return err
	}
	if submit {
		return m.Page.Press(selector, "Enter")
	}
	return nil
}

func (m *Manager) Scroll(ctx context.Context, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.Page.Evaluate(scrollScript(dy))
	return err
}

func (m *Manager) GoBack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.Page.GoBack()
	return err
}

func (m *Manager) Highlight(_ context.Context, id int) {
	_, _ = m.Page.Evaluate(highlightScript(id))
}

func (m *Manager) CurrentURL(_ context.Context) (string, error) {
	return m.Page.URL(), nil
}

func (m *Manager) Close() error {
	var firstErr error
	if m.Context != nil {
		if err := m.Context.Close(); err != nil {
			firstErr = err
		}
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
