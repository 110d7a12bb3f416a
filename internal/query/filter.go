// Package query is the pure narrowing and ordering layer for catalog listings.
// Both storage backends and the HTTP handlers go through it, so the
// server-side and presentation-side filter passes share one semantics.
//
// All functions are side-effect free and order-preserving: when no sort is
// requested the output retains the relative order of the input.
package query

import (
	"strings"

	"voltkart/internal/domain"
)

// PriceBracket matches a product price against an optional [Min, Max] range.
// A nil bound is open: {Min:nil, Max:500} is "under 500", {Min:500, Max:nil}
// is "above 500". Bounds are inclusive.
type PriceBracket struct {
	Min *float64
	Max *float64
}

// Filter is a conjunction of optional product predicates. Zero-value fields
// are inactive; active predicates compose with AND.
type Filter struct {
	CategoryID *int64
	Search     string
	Brand      string
	Price      *PriceBracket

	// searches holds extra search strings accumulated by And. Each one is
	// matched as a full substring, exactly like Search.
	searches []string

	// none marks an unsatisfiable conjunction, e.g. two different exact brands
	none bool
}

// And combines two filters into the conjunction of both. Conjoining two
// different exact-match constraints on the same field yields a filter that
// matches nothing, so filter(filter(X, A), B) == filter(X, A.And(B)) holds
// for every pair of filters.
func (f Filter) And(other Filter) Filter {
	out := f
	out.none = f.none || other.none
	if other.CategoryID != nil {
		if out.CategoryID != nil && *out.CategoryID != *other.CategoryID {
			out.none = true
		}
		out.CategoryID = other.CategoryID
	}
	if other.Search != "" {
		if out.Search == "" {
			out.Search = other.Search
		} else if !strings.EqualFold(out.Search, other.Search) {
			// Both strings must match as full substrings on their own.
			out.searches = appendSearch(out.searches, other.Search)
		}
	}
	for _, s := range other.searches {
		out.searches = appendSearch(out.searches, s)
	}
	if other.Brand != "" {
		if out.Brand != "" && !strings.EqualFold(out.Brand, other.Brand) {
			out.none = true
		}
		out.Brand = other.Brand
	}
	if other.Price != nil {
		if out.Price == nil {
			out.Price = other.Price
		} else {
			merged := *out.Price
			if other.Price.Min != nil && (merged.Min == nil || *other.Price.Min > *merged.Min) {
				merged.Min = other.Price.Min
			}
			if other.Price.Max != nil && (merged.Max == nil || *other.Price.Max < *merged.Max) {
				merged.Max = other.Price.Max
			}
			out.Price = &merged
		}
	}
	return out
}

// Matches reports whether p satisfies every active predicate of f.
func (f Filter) Matches(p domain.Product) bool {
	if f.none {
		return false
	}
	if f.CategoryID != nil {
		if p.CategoryID == nil || *p.CategoryID != *f.CategoryID {
			return false
		}
	}
	if f.Search != "" && !matchesSearch(p, f.Search) {
		return false
	}
	for _, s := range f.searches {
		if !matchesSearch(p, s) {
			return false
		}
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.Price != nil {
		if f.Price.Min != nil && p.Price < *f.Price.Min {
			return false
		}
		if f.Price.Max != nil && p.Price > *f.Price.Max {
			return false
		}
	}
	return true
}

// matchesSearch does a case-insensitive substring match of the whole search
// string against the name, description or brand.
func matchesSearch(p domain.Product, search string) bool {
	needle := strings.ToLower(search)

	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle)
}

// appendSearch copies before appending so conjunctions never alias their
// operands' backing arrays.
func appendSearch(list []string, s string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, s)
}

// Apply returns the products of in that match f, in input order.
func Apply(in []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	for _, p := range in {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate slices the window [offset, offset+limit) out of in. A limit <= 0
// falls back to DefaultLimit; a negative offset is treated as zero.
func Paginate(in []domain.Product, limit, offset int) []domain.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return []domain.Product{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

// DefaultLimit is the page size applied when no limit was requested
const DefaultLimit = 50
