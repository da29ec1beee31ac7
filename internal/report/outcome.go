package report

import "railhook/internal/tracker"

// TerminalResult is the host runner's terminal state for one test
// execution. The set is closed; reporting never sees a test mid-flight.
type TerminalResult int

const (
	ResultPassed TerminalResult = iota
	ResultFailed
	ResultErrored
	ResultSkipped
)

// String returns the runner-side name of the terminal result.
func (r TerminalResult) String() string {
	switch r {
	case ResultPassed:
		return "passed"
	case ResultFailed:
		return "failed"
	case ResultErrored:
		return "errored"
	case ResultSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the status vocabulary reported to the external tracker.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Blocked
	Retest
	Untested
)

// String returns the tracker-side name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Blocked:
		return "blocked"
	case Retest:
		return "retest"
	case Untested:
		return "untested"
	default:
		return "unknown"
	}
}

// StatusID returns the tracker status ID for the outcome.
func (o Outcome) StatusID() tracker.StatusID {
	switch o {
	case Passed:
		return tracker.StatusPassed
	case Failed:
		return tracker.StatusFailed
	case Blocked:
		return tracker.StatusBlocked
	case Retest:
		return tracker.StatusRetest
	default:
		return tracker.StatusUntested
	}
}

// Classify maps a terminal result to its reported outcome. The function is
// total over the result set and purely result-based: a test that blew up in
// setup or teardown classifies the same as one that failed an assertion.
// Skipped tests report as Blocked so they stay visible in the tracker
// instead of silently vanishing from the run.
func Classify(result TerminalResult) Outcome {
	switch result {
	case ResultPassed:
		return Passed
	case ResultSkipped:
		return Blocked
	default:
		// failed, errored, and anything unrecognized.
		return Failed
	}
}
