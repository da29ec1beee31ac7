// Package browser exposes the opaque page capability the reporting layer
// and the UI test suites drive. The reporting layer consumes only the Page
// interface; Chrome is the chromedp-backed implementation the suites use.
package browser

import "context"

// Page is the narrow browser surface the test harness depends on. Any
// driver that can navigate, click, read the address bar and title, and
// produce a screenshot satisfies it.
type Page interface {
	// Navigate loads the given URL and waits for the page to be ready.
	Navigate(ctx context.Context, url string) error
	// Click dispatches a click on the first node matching the CSS selector.
	Click(ctx context.Context, selector string) error
	// URL returns the page's current location.
	URL(ctx context.Context) (string, error)
	// Title returns the page's current document title.
	Title(ctx context.Context) (string, error)
	// Screenshot captures the full page as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
}
