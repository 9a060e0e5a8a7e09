package port

import (
	"context"
	"time"
)

// Browser is the DOM-level surface the automation flows drive. Selectors
// starting with "//" are XPath, everything else CSS.
//
// Absence of an element is an expected outcome in the login and status flows,
// so TryFind and WaitGone report a timeout as a plain false rather than an
// error; errors mean the browser itself failed.
type Browser interface {
	// Navigate loads url and waits for the page load, bounded by the
	// adapter's page-load timeout.
	Navigate(ctx context.Context, url string) error

	// CurrentURL reads the page URL. Used as a cheap liveness probe: an
	// error means the handle is stale.
	CurrentURL(ctx context.Context) (string, error)

	// TryFind polls up to timeout for a visible element matching sel.
	TryFind(ctx context.Context, sel string, timeout time.Duration) (bool, error)

	Click(ctx context.Context, sel string) error
	SendKeys(ctx context.Context, sel, text string) error
	Clear(ctx context.Context, sel string) error

	// IsChecked reads the checked property of a checkbox element.
	IsChecked(ctx context.Context, sel string) (bool, error)

	// WaitGone polls up to timeout for sel to leave the DOM or stop being
	// displayed.
	WaitGone(ctx context.Context, sel string, timeout time.Duration) (bool, error)

	// Close tears the browser down. Idempotent; errors from the underlying
	// quit are swallowed.
	Close() error
}

// BrowserFactory creates a fresh automated browser.
type BrowserFactory interface {
	New(ctx context.Context) (Browser, error)
}
