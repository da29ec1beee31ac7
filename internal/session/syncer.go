package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"railhook/internal/mapping"
	"railhook/internal/report"
	"railhook/internal/tracker"
)

// Syncer pushes one status+comment per case into the active run. It is
// fail-open: every failure mode — disablement, auth, network, not-found —
// comes back as false, never as an error. The tracker applies
// last-write-wins per case, so repeating an update is safe; the syncer
// does no deduplication of its own.
type Syncer struct {
	client  *tracker.Client
	enabled bool
	logger  *slog.Logger
}

// NewSyncer returns a Syncer. client may be nil when reporting is disabled.
func NewSyncer(client *tracker.Client, enabled bool, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{client: client, enabled: enabled && client != nil, logger: logger}
}

// Update pushes outcome+comment for the case within the session's run.
// Returns true only when the tracker acknowledged the update.
func (s *Syncer) Update(ctx context.Context, sess RunSession, caseID mapping.CaseID, outcome report.Outcome, comment string, duration time.Duration) bool {
	if !s.enabled {
		return false
	}
	if !sess.Active() {
		s.logger.Debug("no active run, dropping update", "case_id", caseID, "outcome", outcome.String())
		return false
	}

	elapsed := report.FormatElapsed(duration)
	_, err := s.client.AddResultForCase(ctx, sess.ID, int(caseID), tracker.ResultRequest{
		StatusID: outcome.StatusID(),
		Comment:  comment,
		Elapsed:  elapsed,
	})
	if err != nil {
		s.logger.Error("result update failed",
			"run_id", sess.ID,
			"case_id", caseID,
			"outcome", outcome.String(),
			"elapsed", elapsed,
			"comment_bytes", len(comment),
			"error", err)
		return false
	}

	s.logger.Info("result updated", "run_id", sess.ID, "case_id", caseID, "outcome", outcome.String())
	return true
}
