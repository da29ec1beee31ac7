// Package tracker is a minimal client for a TestRail-compatible
// test-management API. It covers only the surface the reporting layer
// needs: create a run for a set of case IDs, push a status+comment for a
// case within that run, and close the run.
//
// The client returns *APIError for non-2xx responses; use the predicate
// helpers (IsNotFound, IsUnauthorized, IsForbidden, IsBadRequest) to
// branch on failure modes. Nothing in this package retries or swallows
// errors — containment is the session layer's job.
package tracker
