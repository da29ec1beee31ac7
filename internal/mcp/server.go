// Package mcp exposes the reporting layer's lookup surface to agent
// tooling over the Model Context Protocol: resolve a test identity to its
// tracked case, list the mapping table, and check the status of a run.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"railhook/internal/mapping"
	"railhook/internal/tracker"
)

// Server wraps the MCP SDK server around the mapping table and an
// optional tracker client. With a nil client the run_status tool reports
// that the tracker is not configured instead of failing.
type Server struct {
	MCPServer *sdkmcp.Server

	table  *mapping.Table
	client *tracker.Client
}

// NewServer creates an MCP server exposing the mapping and run tools.
func NewServer(table *mapping.Table, client *tracker.Client) *Server {
	if table == nil {
		table = mapping.Empty()
	}
	s := &Server{table: table, client: client}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "railhook", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "resolve_case",
		Description: "Resolve a fully parameter-expanded test identity to its tracked case ID. Unmapped identities are a normal state, not an error.",
	}, s.handleResolveCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_cases",
		Description: "List all tracked case IDs with the test identities that report into each.",
	}, s.handleListCases)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_status",
		Description: "Fetch the current status of a run from the tracker: name, completion state.",
	}, s.handleRunStatus)
}

// --- Tool input/output types ---

type resolveCaseInput struct {
	Identity string `json:"identity" jsonschema:"fully parameter-expanded test name, e.g. TestTabNavigation/ledger"`
}

type resolveCaseOutput struct {
	Mapped bool `json:"mapped"`
	CaseID int  `json:"case_id,omitempty"`
}

type listCasesInput struct{}

type caseEntry struct {
	CaseID     int      `json:"case_id"`
	Identities []string `json:"identities"`
}

type listCasesOutput struct {
	Cases []caseEntry `json:"cases"`
}

type runStatusInput struct {
	RunID int `json:"run_id" jsonschema:"numeric run ID in the tracker"`
}

type runStatusOutput struct {
	RunID       int    `json:"run_id"`
	Name        string `json:"name,omitempty"`
	IsCompleted bool   `json:"is_completed"`
}

// --- Handlers ---

func (s *Server) handleResolveCase(ctx context.Context, req *sdkmcp.CallToolRequest, in resolveCaseInput) (*sdkmcp.CallToolResult, resolveCaseOutput, error) {
	id, ok := s.table.Resolve(in.Identity)
	return nil, resolveCaseOutput{Mapped: ok, CaseID: int(id)}, nil
}

func (s *Server) handleListCases(ctx context.Context, req *sdkmcp.CallToolRequest, in listCasesInput) (*sdkmcp.CallToolResult, listCasesOutput, error) {
	var out listCasesOutput
	for _, id := range s.table.CaseIDs() {
		out.Cases = append(out.Cases, caseEntry{
			CaseID:     int(id),
			Identities: s.table.Identities(id),
		})
	}
	return nil, out, nil
}

func (s *Server) handleRunStatus(ctx context.Context, req *sdkmcp.CallToolRequest, in runStatusInput) (*sdkmcp.CallToolResult, runStatusOutput, error) {
	if s.client == nil {
		return nil, runStatusOutput{}, fmt.Errorf("tracker is not configured")
	}
	run, err := s.client.GetRun(ctx, in.RunID)
	if err != nil {
		return nil, runStatusOutput{}, fmt.Errorf("get run %d: %w", in.RunID, err)
	}
	return nil, runStatusOutput{
		RunID:       run.ID,
		Name:        run.Name,
		IsCompleted: run.IsCompleted,
	}, nil
}

// Run serves MCP over the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport sdkmcp.Transport) error {
	return s.MCPServer.Run(ctx, transport)
}
