// Package evidence captures failure artifacts — a screenshot plus the page
// URL and title at failure time. Capture is strictly best-effort: whatever
// goes wrong inside it comes back as a diagnostic string, never as an error
// or a panic. Diagnostic tooling must not be able to fail the test it is
// diagnosing.
package evidence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"railhook/pkg/browser"
)

// DefaultTimeout bounds one whole capture: page reads plus the screenshot
// write. On expiry the capture degrades to "no artifact".
const DefaultTimeout = 10 * time.Second

// Artifact is a captured screenshot reference plus the page context
// snapshot taken at failure time. URL and Title may be empty when the page
// reads failed; the screenshot fields are only set when the write succeeded.
type Artifact struct {
	Filename   string
	Path       string
	URL        string
	Title      string
	CapturedAt time.Time
}

// Collector writes failure artifacts under a directory. The discriminator
// is appended to every filename so parallel workers writing into a shared
// directory cannot collide.
type Collector struct {
	dir           string
	discriminator string
	timeout       time.Duration
	logger        *slog.Logger

	// now is swapped in tests for deterministic filenames.
	now func() time.Time
}

// NewCollector returns a Collector writing into dir. A zero timeout means
// DefaultTimeout; a nil logger discards.
func NewCollector(dir, discriminator string, timeout time.Duration, logger *slog.Logger) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		dir:           dir,
		discriminator: discriminator,
		timeout:       timeout,
		logger:        logger,
		now:           time.Now,
	}
}

// Capture attempts to snapshot the page context and save a screenshot keyed
// by the test identity. A nil page returns (nil, "") — no page is a normal
// state, not a failure. Any other problem, including a panic out of the
// page implementation, is contained and returned as the diagnostic string.
func (c *Collector) Capture(ctx context.Context, page browser.Page, identity string) (artifact *Artifact, diagnostic string) {
	if page == nil {
		return nil, ""
	}

	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			diagnostic = fmt.Sprintf("evidence capture panicked: %v", r)
			c.logger.Error("capture panicked", "identity", identity, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	capturedAt := c.now()
	art := &Artifact{CapturedAt: capturedAt}

	// Page context reads are individually tolerated; a dead page still
	// gets a screenshot attempt and vice versa.
	if url, err := page.URL(ctx); err == nil {
		art.URL = url
	} else {
		c.logger.Debug("read url failed", "identity", identity, "error", err)
	}
	if title, err := page.Title(ctx); err == nil {
		art.Title = title
	} else {
		c.logger.Debug("read title failed", "identity", identity, "error", err)
	}

	shot, err := page.Screenshot(ctx)
	if err != nil {
		return art, fmt.Sprintf("screenshot failed: %v", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return art, fmt.Sprintf("create screenshot dir: %v", err)
	}

	filename := c.filename(identity, capturedAt)
	path := filepath.Join(c.dir, filename)
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return art, fmt.Sprintf("write screenshot: %v", err)
	}

	art.Filename = filename
	art.Path = path
	c.logger.Debug("screenshot captured", "identity", identity, "path", path)
	return art, ""
}

// filename builds a deterministic, collision-resistant name:
// failure_<identity>_<timestamp>_<discriminator>.png with unsafe
// characters flattened to underscores.
func (c *Collector) filename(identity string, at time.Time) string {
	name := fmt.Sprintf("failure_%s_%s", sanitize(identity), at.Format("2006-01-02_15-04-05"))
	if c.discriminator != "" {
		name += "_" + sanitize(c.discriminator)
	}
	return name + ".png"
}

var unsafeChars = strings.NewReplacer(
	"[", "_", "]", "_", "=", "_", "-", "_",
	":", "_", " ", "_", "/", "_", "\\", "_",
)

func sanitize(s string) string {
	return unsafeChars.Replace(s)
}
