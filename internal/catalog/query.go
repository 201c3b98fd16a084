package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ListQuery mirrors the API's filter and sort query parameters.
type ListQuery struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string // "price", "name" or "id"
	Order    string // "asc" or "desc"
}

// Apply filters and sorts a copy of products. The input slice is not
// modified; catalog order is kept unless a sort is requested.
func (q ListQuery) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.matches(p) {
			out = append(out, p)
		}
	}

	less := q.lessFunc()
	if less != nil {
		sort.SliceStable(out, less(out))
	}
	return out
}

func (q ListQuery) matches(p Product) bool {
	if s := strings.TrimSpace(q.Search); s != "" {
		s = strings.ToLower(s)
		if !strings.Contains(strings.ToLower(p.Name), s) &&
			!strings.Contains(strings.ToLower(p.Description), s) {
			return false
		}
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	return true
}

func (q ListQuery) lessFunc() func([]Product) func(i, j int) bool {
	var cmp func(a, b Product) bool

	switch q.Sort {
	case "price":
		cmp = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case "name":
		cmp = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "id":
		cmp = func(a, b Product) bool { return a.ID < b.ID }
	default:
		return nil
	}

	desc := q.Order == "desc"
	return func(out []Product) func(i, j int) bool {
		return func(i, j int) bool {
			if desc {
				return cmp(out[j], out[i])
			}
			return cmp(out[i], out[j])
		}
	}
}
