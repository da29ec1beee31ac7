package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"railhook/internal/evidence"
	"railhook/internal/mapping"
	"railhook/internal/report"
	"railhook/pkg/browser"
)

// State is the controller's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateSessionOpen
	StateProcessing
	StateSessionClosing
)

// defaultGraceDelay is the bounded settle window before closing the run,
// letting in-flight updates from parallel subtests land first.
const defaultGraceDelay = 100 * time.Millisecond

// TestEvent is one completed test execution handed over by the host
// runner: the fully parameter-expanded identity, the terminal result,
// the measured duration, the failure detail text (empty on pass), and the
// page handle when one is still reachable.
type TestEvent struct {
	Identity      string
	Result        report.TerminalResult
	Duration      time.Duration
	FailureDetail string
	Page          browser.Page
}

// Controller sequences the reporting pipeline around the host runner's
// three lifecycle events. It owns the RunSession value for the whole
// session and threads it explicitly into every downstream call; no
// component looks session state up from anywhere ambient.
//
// Every public method contains its own failures. Whatever happens inside,
// the host runner's control flow is untouched.
type Controller struct {
	table     *mapping.Table
	lifecycle *Lifecycle
	syncer    *Syncer
	collector *evidence.Collector
	logger    *slog.Logger

	graceDelay time.Duration

	mu       sync.Mutex
	state    State
	closed   bool
	session  RunSession
	reported map[string]bool
	inflight int

	openGroup singleflight.Group
}

// NewController wires the reporting pipeline.
func NewController(table *mapping.Table, lifecycle *Lifecycle, syncer *Syncer, collector *evidence.Collector, logger *slog.Logger) *Controller {
	if table == nil {
		table = mapping.Empty()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		table:      table,
		lifecycle:  lifecycle,
		syncer:     syncer,
		collector:  collector,
		logger:     logger,
		graceDelay: defaultGraceDelay,
		reported:   map[string]bool{},
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSessionOpen && c.inflight > 0 {
		return StateProcessing
	}
	return c.state
}

// Session returns the current run session value.
func (c *Controller) Session() RunSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// StartSession opens the external run with the full mapped case set. The
// open is idempotent: concurrent callers (parallel workers finishing their
// first tests at once) collapse onto a single external call and observe
// the same run.
func (c *Controller) StartSession(ctx context.Context) {
	defer c.contain("start session")
	c.ensureOpen(ctx)
}

// ensureOpen transitions IDLE → SESSION_OPEN exactly once and returns the
// session. After EndSession it returns the inactive sentinel; a finished
// session is never reopened.
func (c *Controller) ensureOpen(ctx context.Context) RunSession {
	c.mu.Lock()
	if c.closed || c.state != StateIdle {
		s := c.session
		c.mu.Unlock()
		return s
	}
	c.mu.Unlock()

	v, _, _ := c.openGroup.Do("open", func() (any, error) {
		c.mu.Lock()
		if c.closed || c.state != StateIdle {
			s := c.session
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()

		s := c.lifecycle.Open(ctx, c.table.CaseIDs())

		c.mu.Lock()
		c.session = s
		c.state = StateSessionOpen
		c.mu.Unlock()
		return s, nil
	})
	return v.(RunSession)
}

// TestCompleted processes one terminal test result: resolve → classify →
// collect evidence (non-passed only) → build comment → sync. At most one
// report is emitted per identity per session; re-entrant calls for the
// same identity are dropped. Nothing raised in here reaches the caller.
func (c *Controller) TestCompleted(ctx context.Context, ev TestEvent) {
	defer c.contain("test completed")

	sess := c.ensureOpen(ctx)

	c.mu.Lock()
	if c.closed {
		c.logger.Warn("test completion after session close, dropping", "identity", ev.Identity)
		c.mu.Unlock()
		return
	}
	if c.reported[ev.Identity] {
		c.logger.Debug("already reported, dropping duplicate", "identity", ev.Identity)
		c.mu.Unlock()
		return
	}
	c.reported[ev.Identity] = true
	c.inflight++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	caseID, ok := c.table.Resolve(ev.Identity)
	if !ok {
		// A legitimate state: unmapped tests are simply not reported.
		c.logger.Debug("no case mapping", "identity", ev.Identity)
		return
	}

	if !sess.Active() {
		// Reporting disabled or the session degraded after a failed open;
		// no update can land, so skip evidence capture too.
		c.logger.Debug("reporting inactive, dropping result", "identity", ev.Identity)
		return
	}

	outcome := report.Classify(ev.Result)

	var art *evidence.Artifact
	var diagnostic string
	if outcome != report.Passed && c.collector != nil {
		art, diagnostic = c.collector.Capture(ctx, ev.Page, ev.Identity)
		if diagnostic != "" {
			c.logger.Warn("evidence capture degraded", "identity", ev.Identity, "diagnostic", diagnostic)
		}
	}

	comment := report.BuildComment(outcome, ev.Identity, ev.Duration, ev.FailureDetail, art, diagnostic)

	if c.syncer.Update(ctx, sess, caseID, outcome, comment, ev.Duration) {
		c.logger.Info("reported", "identity", ev.Identity, "case_id", caseID, "outcome", outcome.String())
	} else {
		c.logger.Warn("report not delivered", "identity", ev.Identity, "case_id", caseID, "outcome", outcome.String())
	}
}

// EndSession closes the run exactly once, after a bounded grace delay for
// in-flight updates. Safe when StartSession never ran and when updates
// failed; the close always eventually happens.
func (c *Controller) EndSession(ctx context.Context) {
	defer c.contain("end session")

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	neverOpened := c.state == StateIdle
	c.state = StateSessionClosing
	sess := c.session
	c.mu.Unlock()

	if !neverOpened {
		select {
		case <-time.After(c.graceDelay):
		case <-ctx.Done():
		}
		c.lifecycle.Close(ctx, sess)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.session = RunSession{}
	c.mu.Unlock()
}

// contain is the outermost guard of the propagation policy: reporting
// infrastructure must never become a source of suite failures.
func (c *Controller) contain(op string) {
	if r := recover(); r != nil {
		c.logger.Error("reporting failure contained", "op", op, "panic", r)
	}
}
