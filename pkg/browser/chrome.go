package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Chrome is a Page backed by a dedicated headless Chrome tab via chromedp.
type Chrome struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// Options configures the Chrome allocator.
type Options struct {
	// Headless runs Chrome without a visible window. Suites default to
	// headless; set false locally to watch a flow.
	Headless bool
	// NoSandbox disables the Chrome sandbox, required in most CI containers.
	NoSandbox bool
	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string
}

// DefaultOptions returns the options used by CI runs.
func DefaultOptions() Options {
	return Options{Headless: true, NoSandbox: true}
}

// Open starts a browser and returns a Chrome page bound to a fresh tab.
// The returned page stays valid until Close is called; ctx bounds the
// browser's whole lifetime, not individual actions.
func Open(ctx context.Context, opts Options) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so Open fails fast on a broken
	// environment instead of the first Navigate.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("browser: start chrome: %w", err)
	}

	return &Chrome{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
	}, nil
}

// Close shuts the tab and the browser process down.
func (c *Chrome) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
}

// run executes chromedp actions on the page's tab, honoring ctx cancellation.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(c.ctx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Navigate loads the given URL and waits for the document body to be ready.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// Click dispatches a click on the first visible node matching the selector.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.Click(selector, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("browser: click %s: %w", selector, err)
	}
	return nil
}

// URL returns the page's current location.
func (c *Chrome) URL(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("browser: read location: %w", err)
	}
	return loc, nil
}

// Title returns the page's current document title.
func (c *Chrome) Title(ctx context.Context) (string, error) {
	var title string
	if err := c.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("browser: read title: %w", err)
	}
	return title, nil
}

// Screenshot captures the full page as PNG bytes.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	// Quality 100 makes chromedp emit PNG rather than JPEG.
	if err := c.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return buf, nil
}

var _ Page = (*Chrome)(nil)
