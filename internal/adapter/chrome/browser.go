// Package chrome implements the Browser port on a headless Chrome driven
// over the DevTools protocol.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/punchbar/punchbar/internal/port"
)

const (
	pageLoadTimeout = 30 * time.Second
	actionTimeout   = 10 * time.Second
	pollInterval    = 100 * time.Millisecond

	// A desktop UA keeps the login flow off mobile markup and away from
	// the most naive automation checks.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

	// Runs before any site script so navigator.webdriver reads undefined.
	maskWebdriverScript = "Object.defineProperty(navigator, 'webdriver', {get: () => undefined})"
)

// Factory launches Chrome instances that share one profile directory, so
// cookies and "remember this device" state survive restarts.
type Factory struct {
	profileDir string
	headless   bool
}

func NewFactory(profileDir string, headless bool) *Factory {
	return &Factory{profileDir: profileDir, headless: headless}
}

func (f *Factory) New(ctx context.Context) (port.Browser, error) {
	if err := os.MkdirAll(f.profileDir, 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(f.profileDir),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("use-automation-extension", false),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if f.headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	b := &Browser{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	err := b.run(ctx, pageLoadTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(maskWebdriverScript).Do(ctx)
		return err
	}))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	return b, nil
}

// Browser drives a single Chrome tab.
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := b.run(ctx, pageLoadTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (b *Browser) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, actionTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

func (b *Browser) TryFind(ctx context.Context, sel string, timeout time.Duration) (bool, error) {
	err := b.run(ctx, timeout, chromedp.WaitVisible(sel, queryFor(sel)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	return false, fmt.Errorf("find %q: %w", sel, err)
}

func (b *Browser) Click(ctx context.Context, sel string) error {
	if err := b.run(ctx, actionTimeout, chromedp.Click(sel, queryFor(sel))); err != nil {
		return fmt.Errorf("click %q: %w", sel, err)
	}
	return nil
}

func (b *Browser) SendKeys(ctx context.Context, sel, text string) error {
	if err := b.run(ctx, actionTimeout, chromedp.SendKeys(sel, text, queryFor(sel))); err != nil {
		return fmt.Errorf("type into %q: %w", sel, err)
	}
	return nil
}

func (b *Browser) Clear(ctx context.Context, sel string) error {
	if err := b.run(ctx, actionTimeout, chromedp.Clear(sel, queryFor(sel))); err != nil {
		return fmt.Errorf("clear %q: %w", sel, err)
	}
	return nil
}

func (b *Browser) IsChecked(ctx context.Context, sel string) (bool, error) {
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); return !!el && el.checked; })()`, sel)
	var checked bool
	if err := b.run(ctx, actionTimeout, chromedp.Evaluate(expr, &checked)); err != nil {
		return false, fmt.Errorf("read checked state of %q: %w", sel, err)
	}
	return checked, nil
}

func (b *Browser) WaitGone(ctx context.Context, sel string, timeout time.Duration) (bool, error) {
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); return !el || el.offsetParent === null; })()`, sel)
	var gone bool
	err := b.run(ctx, timeout, chromedp.Poll(expr, &gone, chromedp.WithPollingInterval(pollInterval)))
	if err == nil {
		return gone, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
		return false, nil
	}
	return false, fmt.Errorf("wait for %q to go away: %w", sel, err)
}

func (b *Browser) Close() error {
	// Give Chrome a moment to exit cleanly before tearing the contexts down.
	_ = chromedp.Cancel(b.ctx)
	b.cancel()
	return nil
}

// run executes actions on the tab context, bounded by timeout and cancelled
// early if the caller's ctx is.
func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func queryFor(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
