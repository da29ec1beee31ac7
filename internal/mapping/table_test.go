package mapping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleTable = `
cases:
  345:
    - TestLogin
  100:
    - TestReconciliationTotals
    - TestReconciliationRowCount
  207:
    - TestTabNavigation/vizion_ai
    - TestTabNavigation/ledger
`

func TestLoad_Resolve(t *testing.T) {
	table, err := Load([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := []struct {
		identity string
		want     CaseID
		ok       bool
	}{
		{"TestLogin", 345, true},
		{"TestReconciliationTotals", 100, true},
		{"TestReconciliationRowCount", 100, true},
		{"TestTabNavigation/vizion_ai", 207, true},
		{"TestUpload/invalid", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := table.Resolve(tc.identity)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Resolve(%q) = (%d, %v), want (%d, %v)", tc.identity, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoad_ManyToOne(t *testing.T) {
	table, err := Load([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := table.Identities(100)
	want := []string{"TestReconciliationRowCount", "TestReconciliationTotals"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Identities(100) mismatch (-want +got):\n%s", diff)
	}
}

func TestCaseIDs_Sorted(t *testing.T) {
	table, err := Load([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []CaseID{100, 207, 345}
	if diff := cmp.Diff(want, table.CaseIDs()); diff != "" {
		t.Errorf("CaseIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"identity claimed twice", "cases:\n  1:\n    - TestA\n  2:\n    - TestA\n"},
		{"empty case", "cases:\n  1: []\n"},
		{"zero case id", "cases:\n  0:\n    - TestA\n"},
		{"negative case id", "cases:\n  -3:\n    - TestA\n"},
		{"empty identity", "cases:\n  1:\n    - \"\"\n"},
		{"not yaml", "{{nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load([]byte(tc.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_SameCaseTwiceIsFine(t *testing.T) {
	// The same identity listed twice under one case is redundant, not a
	// conflict.
	table, err := Load([]byte("cases:\n  5:\n    - TestA\n    - TestA\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id, ok := table.Resolve("TestA"); !ok || id != 5 {
		t.Errorf("Resolve(TestA) = (%d, %v)", id, ok)
	}
}

func TestEmpty(t *testing.T) {
	table := Empty()
	if _, ok := table.Resolve("TestAnything"); ok {
		t.Error("empty table should not resolve anything")
	}
	if table.Len() != 0 || len(table.CaseIDs()) != 0 {
		t.Error("empty table should have no cases")
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath("/nonexistent/mapping.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
