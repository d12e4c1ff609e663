package client

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Filter selects which product field a search term is matched against.
type Filter string

const (
	// FilterAuto treats a term containing whitespace as a name search and
	// anything else as a SKU lookup.
	FilterAuto Filter = "auto"
	FilterSKU  Filter = "sku"
	FilterName Filter = "name"
)

func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterSKU:
		return FilterSKU
	case FilterName:
		return FilterName
	default:
		return FilterAuto
	}
}

// Resolve returns the field a term is sent as. An empty term resolves to "".
func (f Filter) Resolve(term string) Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	switch f {
	case FilterSKU, FilterName:
		return f
	}
	if strings.IndexFunc(term, unicode.IsSpace) >= 0 {
		return FilterName
	}
	return FilterSKU
}

type ProductQuery struct {
	Term   string
	Filter Filter
	Active *bool
	Page   int
	Limit  int
}

func (q ProductQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultPageSize
	}
	return q.Limit
}

// Skip is the offset sent to the service: page × limit.
func (q ProductQuery) Skip() int {
	if q.Page < 0 {
		return 0
	}
	return q.Page * q.limit()
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip()))
	v.Set("limit", strconv.Itoa(q.limit()))

	if field := q.Filter.Resolve(q.Term); field != "" {
		v.Set(string(field), strings.TrimSpace(q.Term))
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	return v
}
