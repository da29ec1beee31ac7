package mcp

import (
	"context"
	"testing"

	"railhook/internal/mapping"
)

func TestHandleResolveCase(t *testing.T) {
	table, err := mapping.Load([]byte("cases:\n  345:\n    - TestLogin\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(table, nil)

	_, out, err := s.handleResolveCase(context.Background(), nil, resolveCaseInput{Identity: "TestLogin"})
	if err != nil {
		t.Fatalf("resolve_case: %v", err)
	}
	if !out.Mapped || out.CaseID != 345 {
		t.Errorf("resolve_case = %+v, want mapped case 345", out)
	}

	_, out, err = s.handleResolveCase(context.Background(), nil, resolveCaseInput{Identity: "TestUnknown"})
	if err != nil {
		t.Fatalf("resolve_case: %v", err)
	}
	if out.Mapped {
		t.Errorf("unmapped identity resolved: %+v", out)
	}
}

func TestHandleListCases(t *testing.T) {
	table, err := mapping.Load([]byte("cases:\n  100:\n    - TestA\n    - TestB\n  345:\n    - TestLogin\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(table, nil)

	_, out, err := s.handleListCases(context.Background(), nil, listCasesInput{})
	if err != nil {
		t.Fatalf("list_cases: %v", err)
	}
	if len(out.Cases) != 2 {
		t.Fatalf("cases = %+v, want 2", out.Cases)
	}
	if out.Cases[0].CaseID != 100 || len(out.Cases[0].Identities) != 2 {
		t.Errorf("first case = %+v", out.Cases[0])
	}
}

func TestHandleRunStatus_NoClient(t *testing.T) {
	s := NewServer(mapping.Empty(), nil)
	_, _, err := s.handleRunStatus(context.Background(), nil, runStatusInput{RunID: 1})
	if err == nil {
		t.Error("expected error when tracker is not configured")
	}
}
