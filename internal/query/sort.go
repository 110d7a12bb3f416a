package query

import (
	"sort"
	"strings"

	"voltkart/internal/domain"
)

// Sort is a mutually exclusive ordering applied after filtering
type Sort string

const (
	SortFeatured  Sort = "featured" // input order, the default
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortNameAsc   Sort = "name_asc"
)

// ParseSort maps a query-string value to a Sort, defaulting to featured
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(s)) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortNameAsc:
		return SortNameAsc
	default:
		return SortFeatured
	}
}

// Order returns a copy of in ordered by s. SortFeatured preserves input order.
// The sort is stable, so ties keep their relative input order.
func Order(in []domain.Product, s Sort) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)

	switch s {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}
