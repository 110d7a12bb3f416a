package query

import (
	"reflect"
	"strings"
	"testing"

	"voltkart/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genProduct() gopter.Gen {
	return gen.Struct(reflect.TypeOf(domain.Product{}), map[string]gopter.Gen{
		"Name":        gen.RegexMatch(`[A-Za-z][A-Za-z0-9 ]{2,30}`),
		"Description": gen.RegexMatch(`[a-z ]{0,40}`),
		"Brand":       gen.OneConstOf("Havells", "Polycab", "Fluke", "Philips", "Anchor", ""),
		"Price":       gen.Float64Range(1, 5000),
	})
}

func genProducts() gopter.Gen {
	return gen.SliceOf(genProduct())
}

func genFilter() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "wire", "led", "switch", "a", "e"),
		gen.OneConstOf("", "Havells", "Polycab", "Fluke"),
		gen.Float64Range(0, 3000),
		gen.Float64Range(0, 3000),
		gen.Bool(),
	).Map(func(vals []interface{}) Filter {
		f := Filter{
			Search: vals[0].(string),
			Brand:  vals[1].(string),
		}
		if vals[4].(bool) {
			lo, hi := vals[2].(float64), vals[3].(float64)
			if hi < lo {
				lo, hi = hi, lo
			}
			f.Price = &PriceBracket{Min: &lo, Max: &hi}
		}
		return f
	})
}

func sameProducts(a, b []domain.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestProperty_FilterIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("applying the same filter twice changes nothing", prop.ForAll(
		func(products []domain.Product, f Filter) bool {
			once := Apply(products, f)
			twice := Apply(once, f)
			return sameProducts(once, twice)
		},
		genProducts(),
		genFilter(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FilterComposition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sequential filters equal their conjunction", prop.ForAll(
		func(products []domain.Product, a Filter, b Filter) bool {
			sequential := Apply(Apply(products, a), b)
			combined := Apply(products, a.And(b))
			if !sameProducts(sequential, combined) {
				t.Logf("FAIL: sequential %d products, combined %d products", len(sequential), len(combined))
				return false
			}
			return true
		},
		genProducts(),
		genFilter(),
		genFilter(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SearchIsCaseInsensitive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("upper and lower case searches yield identical results", prop.ForAll(
		func(products []domain.Product, term string) bool {
			upper := Apply(products, Filter{Search: strings.ToUpper(term)})
			lower := Apply(products, Filter{Search: strings.ToLower(term)})
			return sameProducts(upper, lower)
		},
		genProducts(),
		gen.OneConstOf("WIRE", "wire", "Led", "lEd", "HAVELLS", "havells"),
	))

	properties.Property("searching WIRE and wire yield identical result sets", prop.ForAll(
		func(products []domain.Product) bool {
			return sameProducts(
				Apply(products, Filter{Search: "WIRE"}),
				Apply(products, Filter{Search: "wire"}),
			)
		},
		genProducts(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FilterPreservesInputOrder(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filter output is a subsequence of its input", prop.ForAll(
		func(products []domain.Product, f Filter) bool {
			filtered := Apply(products, f)

			i := 0
			for _, p := range products {
				if i < len(filtered) && reflect.DeepEqual(filtered[i], p) {
					i++
				}
			}
			return i == len(filtered)
		},
		genProducts(),
		genFilter(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFilterScenarios(t *testing.T) {
	catWires := int64(2)
	catTools := int64(3)
	under500 := PriceBracket{Max: f64(500)}
	over1000 := PriceBracket{Min: f64(1000)}
	between := PriceBracket{Min: f64(100), Max: f64(2000)}

	products := []domain.Product{
		{ID: 1, Name: "Copper Wire 2.5mm", Description: "100m roll, fire-resistant", Brand: "Polycab", CategoryID: &catWires, Price: 2850},
		{ID: 2, Name: "Digital Multimeter", Description: "Professional grade", Brand: "Fluke", CategoryID: &catTools, Price: 1299},
		{ID: 3, Name: "LED Bulb 12W", Description: "Energy efficient", Brand: "Philips", Price: 249},
	}

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int64
	}{
		{"empty filter returns all", Filter{}, []int64{1, 2, 3}},
		{"category exact match", Filter{CategoryID: &catWires}, []int64{1}},
		{"search hits name", Filter{Search: "wire"}, []int64{1}},
		{"search hits description", Filter{Search: "efficient"}, []int64{3}},
		{"search hits brand", Filter{Search: "fluke"}, []int64{2}},
		{"multi-word search is one substring", Filter{Search: "copper wire"}, []int64{1}},
		{"search does not match across fields", Filter{Search: "wire polycab"}, nil},
		{"conjoined searches match independently", Filter{Search: "copper"}.And(Filter{Search: "roll"}), []int64{1}},
		{"brand exact case-insensitive", Filter{Brand: "polycab"}, []int64{1}},
		{"under bracket", Filter{Price: &under500}, []int64{3}},
		{"above bracket", Filter{Price: &over1000}, []int64{1, 2}},
		{"between bracket", Filter{Price: &between}, []int64{2, 3}},
		{"filters compose with AND", Filter{CategoryID: &catWires, Search: "wire", Brand: "Polycab"}, []int64{1}},
		{"conflicting conjunction matches nothing", Filter{Brand: "Polycab"}.And(Filter{Brand: "Fluke"}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(products, tt.filter)
			var gotIDs []int64
			for _, p := range got {
				gotIDs = append(gotIDs, p.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("Apply() ids = %v, want %v", gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	products := make([]domain.Product, 7)
	for i := range products {
		products[i] = domain.Product{ID: int64(i + 1)}
	}

	if got := Paginate(products, 3, 0); len(got) != 3 || got[0].ID != 1 {
		t.Errorf("Paginate(3,0) = %v", got)
	}
	if got := Paginate(products, 3, 5); len(got) != 2 || got[0].ID != 6 {
		t.Errorf("Paginate(3,5) = %v", got)
	}
	if got := Paginate(products, 3, 99); len(got) != 0 {
		t.Errorf("Paginate past end = %v", got)
	}
	if got := Paginate(products, 0, 0); len(got) != 7 {
		t.Errorf("default limit should cover all %d products, got %d", len(products), len(got))
	}
}

func f64(v float64) *float64 { return &v }
