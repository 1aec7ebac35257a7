package booking

import "strings"

// Filters describe the storefront search panel state.
type Filters struct {
	City     string   `json:"city,omitempty"`
	Village  string   `json:"village,omitempty"`
	Bedrooms int      `json:"bedrooms,omitempty"`
	Guests   int      `json:"guests,omitempty"`
	PriceMin float64  `json:"priceMin,omitempty"`
	PriceMax float64  `json:"priceMax,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Normalized returns a sanitized copy: trimmed lowered location tokens,
// deduplicated features, non-negative numeric bounds, and a max price
// that cannot undercut the min.
func (f Filters) Normalized() Filters {
	n := f
	n.City = strings.TrimSpace(strings.ToLower(n.City))
	n.Village = strings.TrimSpace(strings.ToLower(n.Village))
	n.Features = normalizeTokens(n.Features)
	if n.Bedrooms < 0 {
		n.Bedrooms = 0
	}
	if n.Guests < 0 {
		n.Guests = 0
	}
	if n.PriceMin < 0 {
		n.PriceMin = 0
	}
	if n.PriceMax > 0 && n.PriceMax < n.PriceMin {
		n.PriceMax = 0
	}
	return n
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.City == "" && f.Village == "" && f.Bedrooms == 0 && f.Guests == 0 &&
		f.PriceMin == 0 && f.PriceMax == 0 && len(f.Features) == 0
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
