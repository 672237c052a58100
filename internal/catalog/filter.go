package catalog

import (
	"strings"

	"wildlens_tours/internal/domain"
)

// ComputeFilteredView derives the visible tour list from the full catalog,
// the structured filter selection, and the free-text search. Non-empty
// search text always wins: the structured selection is ignored while a
// search is active. Matching is a case-insensitive substring test on the
// tour title. The result is a fresh slice; the input is never mutated or
// aliased.
func ComputeFilteredView(tours []domain.Tour, sel domain.FilterSelection, search string) []domain.Tour {
	out := make([]domain.Tour, 0, len(tours))
	if q := strings.TrimSpace(search); q != "" {
		q = strings.ToLower(q)
		for _, t := range tours {
			if strings.Contains(strings.ToLower(t.Title), q) {
				out = append(out, t)
			}
		}
		return out
	}
	for _, t := range tours {
		if sel.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Options projects the distinct values of each filterable attribute, in
// first-occurrence order.
func Options(tours []domain.Tour) domain.FilterOptions {
	var opts domain.FilterOptions
	seenPrice := make(map[float64]struct{})
	seenCountry := make(map[string]struct{})
	seenDuration := make(map[string]struct{})
	for _, t := range tours {
		if _, ok := seenPrice[t.Price]; !ok {
			seenPrice[t.Price] = struct{}{}
			opts.Prices = append(opts.Prices, t.Price)
		}
		if _, ok := seenCountry[t.Country]; !ok {
			seenCountry[t.Country] = struct{}{}
			opts.Countries = append(opts.Countries, t.Country)
		}
		if _, ok := seenDuration[t.Duration]; !ok {
			seenDuration[t.Duration] = struct{}{}
			opts.Durations = append(opts.Durations, t.Duration)
		}
	}
	return opts
}
