package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"railhook/internal/report"
	"railhook/internal/tracker"
)

func TestSyncer_Update(t *testing.T) {
	f := newFakeTracker(t)
	s := NewSyncer(newClient(t, f), true, nil)
	sess := RunSession{ID: 4201, active: true}

	ok := s.Update(context.Background(), sess, 345, report.Passed, "Test passed: TestLogin", 1200*time.Millisecond)
	if !ok {
		t.Fatal("expected acknowledged update")
	}

	got, found := f.result("4201/345")
	if !found {
		t.Fatal("result not recorded")
	}
	if got.StatusID != tracker.StatusPassed {
		t.Errorf("status = %d, want %d", got.StatusID, tracker.StatusPassed)
	}
	if got.Elapsed != "1.2s" {
		t.Errorf("elapsed = %q, want %q", got.Elapsed, "1.2s")
	}
	if !strings.Contains(got.Comment, "TestLogin") {
		t.Errorf("comment = %q", got.Comment)
	}
}

func TestSyncer_Update_Disabled(t *testing.T) {
	f := newFakeTracker(t)
	s := NewSyncer(newClient(t, f), false, nil)
	sess := RunSession{ID: 4201, active: true}

	if s.Update(context.Background(), sess, 345, report.Passed, "", time.Second) {
		t.Error("disabled syncer must return false")
	}
	if f.callCount() != 0 {
		t.Errorf("disabled syncer made %d network calls", f.callCount())
	}
}

func TestSyncer_Update_InactiveSession(t *testing.T) {
	f := newFakeTracker(t)
	s := NewSyncer(newClient(t, f), true, nil)

	if s.Update(context.Background(), RunSession{}, 345, report.Failed, "", time.Second) {
		t.Error("update against inactive session must return false")
	}
	if f.callCount() != 0 {
		t.Errorf("inactive session produced %d network calls", f.callCount())
	}
}

func TestSyncer_Update_APIFailure(t *testing.T) {
	f := newFakeTracker(t)
	f.failResults = true
	s := NewSyncer(newClient(t, f), true, nil)
	sess := RunSession{ID: 4201, active: true}

	if s.Update(context.Background(), sess, 345, report.Failed, "boom", time.Second) {
		t.Error("failed update must return false, not raise")
	}
}

func TestSyncer_Update_Idempotent(t *testing.T) {
	f := newFakeTracker(t)
	s := NewSyncer(newClient(t, f), true, nil)
	sess := RunSession{ID: 1, active: true}
	ctx := context.Background()

	s.Update(ctx, sess, 100, report.Failed, "same", time.Second)
	s.Update(ctx, sess, 100, report.Failed, "same", time.Second)

	got, _ := f.result("1/100")
	if got.Comment != "same" || got.StatusID != tracker.StatusFailed {
		t.Errorf("final state = %+v", got)
	}
	if n := len(f.callsMatching("add_result_for_case/")); n != 2 {
		t.Errorf("expected 2 pushes, got %d", n)
	}
}
