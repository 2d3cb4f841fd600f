package handlers

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"casamento/internal/models"
)

// Catalog sort orders
const (
	SortPrice      = "price"
	SortAlpha      = "alphabetical"
	SortPopularity = "popularity"
)

// DefaultMaxPrice is the upper end of the price slider
const DefaultMaxPrice = models.Money(50000)

// maxFilterReais keeps the ceiling in centavos inside int64
const maxFilterReais = math.MaxInt64 / 100

// CatalogFilter is the gift page query: search term, price ceiling and order
type CatalogFilter struct {
	Search   string
	MaxPrice models.Money
	Sort     string
}

// ParseCatalogFilter reads ?q=&max=&sort= with defaults for anything missing or invalid.
// max is in whole reais.
func ParseCatalogFilter(q url.Values) CatalogFilter {
	f := CatalogFilter{
		Search:   strings.TrimSpace(q.Get("q")),
		MaxPrice: DefaultMaxPrice,
		Sort:     SortPrice,
	}
	if v, err := strconv.ParseInt(q.Get("max"), 10, 64); err == nil && v >= 0 {
		f.MaxPrice = models.Money(min(v, maxFilterReais) * 100)
	}
	switch s := q.Get("sort"); s {
	case SortPrice, SortAlpha, SortPopularity:
		f.Sort = s
	}
	return f
}

// MaxReais is the ceiling in whole reais, for the slider
func (f CatalogFilter) MaxReais() int64 {
	return int64(f.MaxPrice) / 100
}

// Apply returns the gifts matching the filter in the requested order. The input is
// not modified.
func (f CatalogFilter) Apply(gifts []models.Gift) []models.Gift {
	term := strings.ToLower(f.Search)
	out := make([]models.Gift, 0, len(gifts))
	for _, g := range gifts {
		if term != "" && !strings.Contains(strings.ToLower(g.Name), term) {
			continue
		}
		if g.Price > f.MaxPrice {
			continue
		}
		out = append(out, g)
	}

	switch f.Sort {
	case SortAlpha:
		c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b models.Gift) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortPopularity:
		slices.SortStableFunc(out, func(a, b models.Gift) int {
			return cmpInt64(a.ID, b.ID)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Gift) int {
			return cmpInt64(int64(a.Price), int64(b.Price))
		})
	}
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// findGift looks a gift up by id
func findGift(gifts []models.Gift, id int64) (models.Gift, bool) {
	for _, g := range gifts {
		if g.ID == id {
			return g, true
		}
	}
	return models.Gift{}, false
}
