package tracker

import (
	"context"
	"fmt"
)

// AddRun creates a new run under the given project and returns it.
func (c *Client) AddRun(ctx context.Context, projectID int, req AddRunRequest) (*Run, error) {
	var run Run
	if err := c.doJSON(ctx, "POST", fmt.Sprintf("add_run/%d", projectID), "add run", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun returns a single run by its numeric ID.
func (c *Client) GetRun(ctx context.Context, runID int) (*Run, error) {
	var run Run
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("get_run/%d", runID), "get run", nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// CloseRun closes a run. Closing an already-closed run is a 400 from the
// API; callers that want close to be idempotent should check GetRun first
// or treat IsBadRequest as success.
func (c *Client) CloseRun(ctx context.Context, runID int) (*Run, error) {
	var run Run
	if err := c.doJSON(ctx, "POST", fmt.Sprintf("close_run/%d", runID), "close run", struct{}{}, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
