// Package session owns the run lifecycle against the external tracker and
// the controller that sequences per-test reporting. The central contract:
// nothing in this package propagates an error or panic into the host test
// runner — every failure is contained, logged, and degrades the reporting
// layer, never the suite.
package session

import "railhook/internal/mapping"

// RunSession is the external grouping entity for one test-execution
// session. The zero value is the inactive sentinel used when reporting is
// disabled or the open call failed; updates against it are silently
// skipped. The identifier is stable between open and close and is never
// mutated by callers.
type RunSession struct {
	ID      int
	CaseIDs []mapping.CaseID
	active  bool
}

// Active reports whether the session is backed by a real external run.
func (s RunSession) Active() bool { return s.active }
