package report

import (
	"fmt"
	"strings"
	"time"

	"railhook/internal/evidence"
)

// maxTailLines bounds the failure excerpt when no specific error line can
// be extracted, keeping tracker comments readable.
const maxTailLines = 8

// BuildComment synthesizes the human-readable comment attached to a status
// update. It never fails: malformed or empty failure detail degrades to a
// generic notice, and a missing artifact simply drops the evidence section.
func BuildComment(outcome Outcome, identity string, duration time.Duration, failureDetail string, art *evidence.Artifact, diagnostic string) string {
	var b strings.Builder

	if outcome == Passed {
		fmt.Fprintf(&b, "Test passed: %s\n", identity)
		fmt.Fprintf(&b, "Duration: %s\n", FormatElapsed(duration))
		b.WriteString("All assertions passed.")
		return b.String()
	}

	fmt.Fprintf(&b, "Test %s: %s\n", outcome, identity)
	fmt.Fprintf(&b, "Duration: %s\n", FormatElapsed(duration))

	if line := extractErrorLine(failureDetail); line != "" {
		fmt.Fprintf(&b, "Error: %s\n", line)
	} else if tail := tailLines(failureDetail, maxTailLines); tail != "" {
		fmt.Fprintf(&b, "Details:\n%s\n", tail)
	} else {
		b.WriteString("No failure detail was captured.\n")
	}

	if art != nil {
		if art.URL != "" {
			fmt.Fprintf(&b, "Page URL: %s\n", art.URL)
		}
		if art.Title != "" {
			fmt.Fprintf(&b, "Page title: %s\n", art.Title)
		}
		if art.Filename != "" {
			fmt.Fprintf(&b, "Screenshot: %s\n", art.Filename)
		}
	}
	if diagnostic != "" {
		fmt.Fprintf(&b, "Screenshot capture failed: %s\n", diagnostic)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatElapsed renders a duration in the tracker's elapsed syntax with
// 0.1s precision. The tracker rejects zero elapsed values, so anything
// under 0.1s rounds up.
func FormatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return "0.1s"
	}
	return fmt.Sprintf("%.1fs", secs)
}

// extractErrorLine returns the most specific failure line available:
// an assertion-style line first, then a timeout-style line. Empty when
// neither pattern is present.
func extractErrorLine(detail string) string {
	lines := strings.Split(detail, "\n")

	for _, line := range lines {
		if isAssertionLine(line) {
			return strings.TrimSpace(line)
		}
	}
	for _, line := range lines {
		if isTimeoutLine(line) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func isAssertionLine(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "assert") ||
		strings.Contains(l, "expected") && strings.Contains(l, "got")
}

func isTimeoutLine(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "timeout") ||
		strings.Contains(l, "timed out") ||
		strings.Contains(l, "deadline exceeded")
}

// tailLines returns the last n non-empty-trimmed lines of detail joined
// back together, or "" when detail has no content.
func tailLines(detail string, n int) string {
	trimmed := strings.TrimSpace(detail)
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
