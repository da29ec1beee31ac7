package tracker

import (
	"context"
	"fmt"
)

// AddResultForCase pushes a result for one case within a run. Repeated calls
// for the same (run, case) append result records; the tracker surfaces the
// most recent one as the case's current status, so the call is last-write-wins
// from the caller's perspective.
func (c *Client) AddResultForCase(ctx context.Context, runID, caseID int, req ResultRequest) (*Result, error) {
	var result Result
	method := fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID)
	if err := c.doJSON(ctx, "POST", method, "add result for case", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
