package lookup

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/uisautomation/assetmigrate/pkg/logging"
)

// Status classifies a resolution outcome. Keeping service failures
// distinct from confirmed no-matches lets callers report them differently
// even though both leave the department empty.
type Status int

// Resolution statuses.
const (
	StatusResolved Status = iota
	StatusNoMatch
	StatusError
)

// Outcome is the tagged result of resolving one raw department string.
type Outcome struct {
	Status Status
	InstID string
}

// Resolved reports whether the outcome carries a canonical identifier.
func (o Outcome) Resolved() bool {
	return o.Status == StatusResolved
}

// Searcher is the directory service contract the resolver consumes.
type Searcher interface {
	Search(ctx context.Context, name string) ([]Institution, error)
}

// searchPrefixes are tried in order when hunting for an institution.
// A bare entry of "foo" is also searched as "Department of foo" and
// "Faculty of foo", matching how units appear in the directory.
var searchPrefixes = []string{"", "Department of ", "Faculty of "}

// Resolver maps free-form department strings to canonical institution
// identifiers. Results are memoized per run: each distinct raw string
// triggers at most one search sequence, and both successes and failures
// are cached. A Resolver is scoped to a single run and a single goroutine.
type Resolver struct {
	searcher Searcher
	fixups   map[string]string
	cache    map[string]Outcome
	fold     cases.Caser
}

// NewResolver creates a resolver backed by the given searcher.
func NewResolver(searcher Searcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		searcher: searcher,
		fixups:   make(map[string]string),
		cache:    make(map[string]Outcome),
		fold:     cases.Fold(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFixups seeds the resolver with operator-curated overrides that are
// consulted before the directory service.
func WithFixups(f *Fixups) ResolverOption {
	return func(r *Resolver) {
		if f == nil {
			return
		}
		for _, fx := range f.Institutions {
			r.fixups[fx.Original] = fx.InstID
		}
	}
}

// Resolve maps a raw department string to an outcome. The confidence
// policy is deterministic: a fixup entry wins outright; otherwise, for
// each search prefix in order, exactly one exact name match wins, then
// exactly one case-folded match, then exactly one approximate match.
// Anything more ambiguous is a no-match rather than a guess. A service
// error for any query ends the hunt with StatusError for this string.
func (r *Resolver) Resolve(ctx context.Context, raw string) Outcome {
	if outcome, ok := r.cache[raw]; ok {
		return outcome
	}

	outcome := r.resolve(ctx, raw)
	r.cache[raw] = outcome
	return outcome
}

func (r *Resolver) resolve(ctx context.Context, raw string) Outcome {
	if instid, ok := r.fixups[raw]; ok {
		return Outcome{Status: StatusResolved, InstID: instid}
	}

	if strings.TrimSpace(raw) == "" {
		return Outcome{Status: StatusNoMatch}
	}

	for _, prefix := range searchPrefixes {
		query := prefix + raw

		matches, err := r.searcher.Search(ctx, query)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("department", raw).
				Msg("Directory lookup failed, treating as unresolved")
			return Outcome{Status: StatusError}
		}

		if inst, ok := pickMatch(matches, query, r.fold); ok {
			return Outcome{Status: StatusResolved, InstID: inst.InstID}
		}
	}

	return Outcome{Status: StatusNoMatch}
}

// pickMatch applies the confidence policy to one query's candidates.
func pickMatch(matches []Institution, query string, fold cases.Caser) (Institution, bool) {
	var exact, folded []Institution
	foldedQuery := fold.String(query)
	for _, m := range matches {
		if m.Name == query {
			exact = append(exact, m)
		} else if fold.String(m.Name) == foldedQuery {
			folded = append(folded, m)
		}
	}

	if len(exact) == 1 {
		return exact[0], true
	}
	if len(exact) == 0 && len(folded) == 1 {
		return folded[0], true
	}

	// A single approximate match is confident enough; more than one is
	// ambiguous and fewer means the directory has nothing for this query.
	if len(matches) == 1 {
		return matches[0], true
	}
	return Institution{}, false
}
