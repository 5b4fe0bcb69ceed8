// Package query translates list parameters (search term, status filter,
// sort order) into one shared set of matching and ordering rules used by
// every storage backend.
package query

import (
	"net/url"
	"strings"
)

// Filter narrows a listing by return status.
type Filter string

// Sort orders a listing by the date a disc was found.
type Sort string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterReturned Filter = "returned"

	SortDateDesc Sort = "date_desc"
	SortDateAsc  Sort = "date_asc"
)

// DefaultLimit caps any listing to bound response size.
const DefaultLimit = 500

// Options describes one list request.
type Options struct {
	Search string
	Filter Filter
	Sort   Sort
	Limit  int
}

// Parse reads search, filterBy and sortBy from URL query values and
// normalizes unknown values to the defaults.
func Parse(values url.Values) Options {
	o := Options{
		Search: values.Get("search"),
		Filter: Filter(values.Get("filterBy")),
		Sort:   Sort(values.Get("sortBy")),
		Limit:  DefaultLimit,
	}
	return o.Normalize()
}

// Normalize replaces unknown filter and sort values with the defaults
// and ensures the limit is set.
func (o Options) Normalize() Options {
	switch o.Filter {
	case FilterActive, FilterReturned:
	default:
		o.Filter = FilterAll
	}
	switch o.Sort {
	case SortDateAsc:
	default:
		o.Sort = SortDateDesc
	}
	if o.Limit <= 0 || o.Limit > DefaultLimit {
		o.Limit = DefaultLimit
	}
	return o
}

// MatchesSearch reports whether the term is a case-folded substring of any
// text field or an exact substring of the stored phone number. An empty
// term matches everything.
func MatchesSearch(term, ownerName, phoneNumber, discType, discColor string) bool {
	if term == "" {
		return true
	}
	folded := strings.ToLower(term)
	if strings.Contains(strings.ToLower(ownerName), folded) ||
		strings.Contains(strings.ToLower(discType), folded) ||
		strings.Contains(strings.ToLower(discColor), folded) {
		return true
	}
	// Phone numbers are not alphabetic, match the stored value as-is.
	return strings.Contains(phoneNumber, term)
}

// EscapeLike backslash-escapes the LIKE metacharacters in term so SQL
// backends match it as a literal substring, the same way MatchesSearch
// does.
func EscapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// MatchesFilter reports whether a record with the given return status
// passes the filter.
func MatchesFilter(f Filter, isReturned bool) bool {
	switch f {
	case FilterActive:
		return !isReturned
	case FilterReturned:
		return isReturned
	default:
		return true
	}
}
