package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/machinecal/internal/common"
)

// Filter selects machines by status. FilterAll disables status filtering.
type Filter string

const FilterAll Filter = "all"

// Filters lists every valid Filter in toolbar order.
var Filters = []Filter{FilterAll, Filter(StatusPending), Filter(StatusInProgress), Filter(StatusPwned)}

func (f Filter) IsValid() bool {
	for _, v := range Filters {
		if f == v {
			return true
		}
	}
	return false
}

// Matches reports whether a machine with status s passes the filter.
func (f Filter) Matches(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// ParseFilter validates user input naming a filter. Empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(s)
	if !f.IsValid() {
		return "", common.NewValidationError("filter", fmt.Sprintf("unknown value %q", s))
	}
	return f, nil
}
