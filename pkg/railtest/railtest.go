// Package railtest hooks the reporting layer into a standard go test
// suite. The host runner's three lifecycle events map onto Main (session
// bracket around m.Run) and Observe (per-test completion hook).
//
// Everything here is fail-open: a broken configuration, an unreachable
// tracker, or a dead browser degrades reporting and never the suite.
package railtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"railhook/internal/config"
	"railhook/internal/evidence"
	"railhook/internal/logging"
	"railhook/internal/mapping"
	"railhook/internal/report"
	"railhook/internal/session"
	"railhook/internal/tracker"
	"railhook/pkg/browser"
)

// Suite wires the reporting pipeline for one test process.
type Suite struct {
	controller *session.Controller

	mu      sync.Mutex
	details map[string][]string
}

// New builds a Suite from the given configuration. It never fails: an
// invalid enabled configuration or an unloadable mapping table is logged
// and degrades the suite to disabled reporting.
func New(cfg config.Config) *Suite {
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	logger := logging.New("railtest")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid reporting config, disabling", "error", err)
		cfg.Enabled = false
	}

	table := mapping.Empty()
	if cfg.Enabled {
		loaded, err := mapping.LoadFromPath(cfg.MappingPath)
		if err != nil {
			logger.Error("mapping table unavailable, disabling", "path", cfg.MappingPath, "error", err)
			cfg.Enabled = false
		} else {
			table = loaded
		}
	}

	var client *tracker.Client
	if cfg.Enabled {
		var err error
		client, err = tracker.New(cfg.BaseURL, cfg.Username, cfg.APIKey,
			tracker.WithLogger(logging.New("tracker")),
			tracker.WithTimeout(cfg.RequestTimeout))
		if err != nil {
			logger.Error("tracker client unavailable, disabling", "error", err)
			cfg.Enabled = false
		}
	}

	var collector *evidence.Collector
	if cfg.Enabled {
		// The discriminator keeps parallel workers sharing a screenshot
		// directory from colliding on filenames.
		collector = evidence.NewCollector(cfg.ScreenshotDir, uuid.NewString()[:8],
			cfg.CaptureTimeout, logging.New("evidence"))
	}

	lifecycle := session.NewLifecycle(client, cfg, logging.New("lifecycle"))
	syncer := session.NewSyncer(client, cfg.Enabled, logging.New("sync"))
	controller := session.NewController(table, lifecycle, syncer, collector, logging.New("session"))

	return &Suite{controller: controller, details: map[string][]string{}}
}

// FromEnv builds a Suite from environment configuration only.
func FromEnv() *Suite {
	return New(config.FromEnv())
}

// Main brackets the whole test session: open the run, execute the suite,
// close the run. Use from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(railtest.FromEnv().Main(m))
//	}
func (s *Suite) Main(m *testing.M) int {
	ctx := context.Background()
	s.controller.StartSession(ctx)
	code := m.Run()
	s.controller.EndSession(ctx)
	return code
}

// Observe registers a completion hook for the current test. Defer the
// returned function first thing in the test body; it reads the test's
// terminal state after everything else (including cleanup) ran:
//
//	func TestLogin(t *testing.T) {
//		page := openPage(t)
//		defer suite.Observe(t, page)()
//		...
//	}
//
// page may be nil when the test never opened one.
func (s *Suite) Observe(t *testing.T, page browser.Page) func() {
	started := time.Now()
	return func() {
		result := report.ResultPassed
		switch {
		case t.Skipped():
			result = report.ResultSkipped
		case t.Failed():
			result = report.ResultFailed
		}

		s.controller.TestCompleted(context.Background(), session.TestEvent{
			Identity:      t.Name(),
			Result:        result,
			Duration:      time.Since(started),
			FailureDetail: s.takeDetail(t.Name()),
			Page:          page,
		})
	}
}

// Errorf records the failure message for the tracker comment and forwards
// it to the test. The standard testing API does not expose a test's own
// log output, so suites that want their assertion text in the tracker
// route failures through here instead of t.Errorf.
func (s *Suite) Errorf(t *testing.T, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.mu.Lock()
	s.details[t.Name()] = append(s.details[t.Name()], msg)
	s.mu.Unlock()
	t.Helper()
	t.Errorf("%s", msg)
}

// Fatalf is Errorf followed by FailNow.
func (s *Suite) Fatalf(t *testing.T, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.mu.Lock()
	s.details[t.Name()] = append(s.details[t.Name()], msg)
	s.mu.Unlock()
	t.Helper()
	t.Fatalf("%s", msg)
}

func (s *Suite) takeDetail(identity string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.details[identity]
	delete(s.details, identity)
	return strings.Join(lines, "\n")
}
