package session

import (
	"context"
	"io"
	"log/slog"

	"railhook/internal/config"
	"railhook/internal/mapping"
	"railhook/internal/tracker"
)

// Lifecycle manages the external run entity: creation at session start,
// closure at session end. Both operations are fail-open — a lifecycle
// failure degrades reporting for the rest of the session instead of
// surfacing to the suite.
type Lifecycle struct {
	client  *tracker.Client
	enabled bool
	cfg     config.Config
	logger  *slog.Logger
}

// NewLifecycle returns a Lifecycle. client may be nil when reporting is
// disabled; it is never touched in that case.
func NewLifecycle(client *tracker.Client, cfg config.Config, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Lifecycle{
		client:  client,
		enabled: cfg.Enabled && client != nil,
		cfg:     cfg,
		logger:  logger,
	}
}

// Open creates an external run containing exactly the given case IDs and
// returns the session. When reporting is disabled, or the external call
// fails, it returns the inactive sentinel — it never returns an error.
func (l *Lifecycle) Open(ctx context.Context, caseIDs []mapping.CaseID) RunSession {
	if !l.enabled {
		return RunSession{}
	}
	if len(caseIDs) == 0 {
		l.logger.Info("no mapped cases, skipping run creation")
		return RunSession{}
	}

	ids := make([]int, len(caseIDs))
	for i, id := range caseIDs {
		ids[i] = int(id)
	}

	run, err := l.client.AddRun(ctx, l.cfg.ProjectID, tracker.AddRunRequest{
		SuiteID:     l.cfg.SuiteID,
		Name:        l.cfg.RunName,
		Description: l.cfg.RunDescription,
		IncludeAll:  false,
		CaseIDs:     ids,
	})
	if err != nil {
		l.logger.Error("create run failed, reporting disabled for this session", "error", err)
		return RunSession{}
	}

	l.logger.Info("run created", "run_id", run.ID, "cases", len(ids))
	return RunSession{ID: run.ID, CaseIDs: caseIDs, active: true}
}

// Close closes the external run. Safe to call with an inactive session
// (no-op) and safe when the external call fails (logged, swallowed).
func (l *Lifecycle) Close(ctx context.Context, s RunSession) {
	if !l.enabled || !s.Active() {
		return
	}

	// The tracker rejects closing an already-completed run, so look first.
	run, err := l.client.GetRun(ctx, s.ID)
	if err != nil {
		l.logger.Error("look up run before close failed", "run_id", s.ID, "error", err)
		return
	}
	if run.IsCompleted {
		l.logger.Info("run already closed", "run_id", s.ID)
		return
	}

	if _, err := l.client.CloseRun(ctx, s.ID); err != nil {
		l.logger.Error("close run failed", "run_id", s.ID, "error", err)
		return
	}
	l.logger.Info("run closed", "run_id", s.ID)
}
