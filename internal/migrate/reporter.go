package migrate

import (
	"github.com/uisautomation/assetmigrate/internal/lookup"
	"github.com/uisautomation/assetmigrate/pkg/documents"
)

// Reporter accumulates the (original string, resolution) pairs observed
// across a run. The first resolution recorded for a string is
// authoritative; later records for the same string are no-ops, consistent
// with the resolver's cache. A Reporter is scoped to one run.
type Reporter struct {
	order []string
	seen  map[string]lookup.Outcome
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{seen: make(map[string]lookup.Outcome)}
}

// Record notes the resolution observed for one original string.
func (r *Reporter) Record(original string, outcome lookup.Outcome) {
	if _, ok := r.seen[original]; ok {
		return
	}
	r.seen[original] = outcome
	r.order = append(r.order, original)
}

// Len returns the number of distinct original strings recorded.
func (r *Reporter) Len() int {
	return len(r.order)
}

// Finalize emits the report document: one mapping per distinct original
// string, in first-observed order. Unresolved strings (no match and
// service failures alike) carry a null instid.
func (r *Reporter) Finalize() documents.ReportDocument {
	mappings := make([]documents.DeptMapping, 0, len(r.order))
	for _, original := range r.order {
		m := documents.DeptMapping{Original: original}
		if outcome := r.seen[original]; outcome.Resolved() {
			instid := outcome.InstID
			m.InstID = &instid
		}
		mappings = append(mappings, m)
	}
	return documents.ReportDocument{
		Type:                documents.TypeReport,
		OriginalDeptMapping: mappings,
	}
}
