package mapping

import (
	"fmt"
	"os"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// CaseID identifies a tracked test case in the external system.
type CaseID int

// Table maps test identities to case IDs. Many identities may report into
// the same case (several fine-grained checks aggregated under one
// business-level case); one identity never maps to more than one case.
// The table is loaded once and read-only afterwards.
type Table struct {
	byIdentity map[string]CaseID
	byCase     map[CaseID][]string
}

// tableFile is the on-disk shape: case IDs keyed to the identities that
// report into them, so the many-to-one relation is the file's native form.
//
//	cases:
//	  345:
//	    - TestLogin
//	  100:
//	    - TestReconciliationTotals
//	    - TestReconciliationRowCount
type tableFile struct {
	Cases map[int][]string `yaml:"cases"`
}

// Load parses a mapping table from YAML bytes.
func Load(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse mapping yaml: %w", err)
	}

	t := &Table{
		byIdentity: make(map[string]CaseID),
		byCase:     make(map[CaseID][]string),
	}
	for id, identities := range f.Cases {
		if id <= 0 {
			return nil, fmt.Errorf("mapping: case ID %d is not positive", id)
		}
		if len(identities) == 0 {
			return nil, fmt.Errorf("mapping: case %d has no test identities", id)
		}
		caseID := CaseID(id)
		for _, identity := range identities {
			if identity == "" {
				return nil, fmt.Errorf("mapping: case %d has an empty test identity", id)
			}
			if existing, ok := t.byIdentity[identity]; ok {
				if existing != caseID {
					return nil, fmt.Errorf("mapping: identity %q claimed by cases %d and %d", identity, existing, caseID)
				}
				continue
			}
			t.byIdentity[identity] = caseID
			t.byCase[caseID] = append(t.byCase[caseID], identity)
		}
	}
	for _, identities := range t.byCase {
		sort.Strings(identities)
	}
	return t, nil
}

// LoadFromPath reads and parses a mapping table file.
func LoadFromPath(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return Load(data)
}

// Empty returns a table with no mappings. Every Resolve call misses.
func Empty() *Table {
	return &Table{
		byIdentity: map[string]CaseID{},
		byCase:     map[CaseID][]string{},
	}
}

// Resolve returns the case ID configured for a fully parameter-expanded
// test identity. A miss is a legitimate state, not an error: unmapped tests
// are simply not reported.
func (t *Table) Resolve(identity string) (CaseID, bool) {
	id, ok := t.byIdentity[identity]
	return id, ok
}

// CaseIDs returns all case IDs in the table, sorted ascending. The run is
// opened with exactly this set.
func (t *Table) CaseIDs() []CaseID {
	ids := make([]CaseID, 0, len(t.byCase))
	for id := range t.byCase {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Identities returns the identities reporting into a case, sorted.
func (t *Table) Identities(id CaseID) []string {
	return t.byCase[id]
}

// Len returns the number of mapped identities.
func (t *Table) Len() int { return len(t.byIdentity) }
