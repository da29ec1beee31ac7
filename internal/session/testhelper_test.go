package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"railhook/internal/config"
	"railhook/internal/tracker"
)

// fakeTracker is an in-memory TestRail-style backend. It records every API
// call in order so tests can assert call counts, payloads, and lifecycle
// ordering, and keeps last-write-wins result state per (run, case).
type fakeTracker struct {
	srv *httptest.Server

	mu        sync.Mutex
	calls     []string // api methods in arrival order, e.g. "add_run/7"
	results   map[string]tracker.ResultRequest
	nextRunID int
	closed    map[int]bool

	failAddRun  bool
	failResults bool
	failClose   bool
}

func newFakeTracker(t *testing.T) *fakeTracker {
	t.Helper()
	f := &fakeTracker{
		results:   map[string]tracker.ResultRequest{},
		closed:    map[int]bool{},
		nextRunID: 4200,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTracker) handle(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v2/"
	method := strings.TrimPrefix(r.URL.RawQuery, prefix)

	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()

	switch {
	case strings.HasPrefix(method, "add_run/"):
		if f.failAddRun {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(tracker.ErrorResponse{Error: "API access disabled"})
			return
		}
		f.mu.Lock()
		f.nextRunID++
		id := f.nextRunID
		f.mu.Unlock()
		json.NewEncoder(w).Encode(tracker.Run{ID: id})

	case strings.HasPrefix(method, "add_result_for_case/"):
		if f.failResults {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(tracker.ErrorResponse{Error: "run is closed"})
			return
		}
		var req tracker.ResultRequest
		json.NewDecoder(r.Body).Decode(&req)
		key := strings.TrimPrefix(method, "add_result_for_case/")
		f.mu.Lock()
		f.results[key] = req
		n := len(f.results)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(tracker.Result{ID: n, StatusID: req.StatusID})

	case strings.HasPrefix(method, "get_run/"):
		id := strings.TrimPrefix(method, "get_run/")
		f.mu.Lock()
		completed := f.closed[atoiOr(id)]
		f.mu.Unlock()
		json.NewEncoder(w).Encode(tracker.Run{ID: atoiOr(id), IsCompleted: completed})

	case strings.HasPrefix(method, "close_run/"):
		if f.failClose {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		id := atoiOr(strings.TrimPrefix(method, "close_run/"))
		f.mu.Lock()
		f.closed[id] = true
		f.mu.Unlock()
		json.NewEncoder(w).Encode(tracker.Run{ID: id, IsCompleted: true})

	default:
		http.NotFound(w, r)
	}
}

func atoiOr(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// callsMatching returns the recorded API methods with the given prefix.
func (f *fakeTracker) callsMatching(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// result returns the last-write-wins state for "runID/caseID".
func (f *fakeTracker) result(key string) (tracker.ResultRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.results[key]
	return r, ok
}

func (f *fakeTracker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// enabledConfig returns a valid enabled config pointing at the fake.
func enabledConfig(f *fakeTracker) config.Config {
	cfg := config.Default()
	cfg.Enabled = true
	cfg.BaseURL = f.srv.URL
	cfg.Username = "qa@example.com"
	cfg.APIKey = "key"
	cfg.ProjectID = 7
	cfg.SuiteID = 139
	return cfg
}

func newClient(t *testing.T, f *fakeTracker) *tracker.Client {
	t.Helper()
	client, err := tracker.New(f.srv.URL, "qa@example.com", "key", tracker.WithHTTPClient(f.srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return client
}
