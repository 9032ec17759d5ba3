// Package projection derives the filtered and sorted view of the center
// directory shown in the results table. Everything here is a pure function of
// its inputs; the dataset slice passed in is never mutated.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jask/practicum/internal/center"
)

// Criteria holds the three filter inputs. Empty fields match everything.
type Criteria struct {
	Name string
	Zone string
	Code string
}

// IsZero reports whether no filter is active.
func (c Criteria) IsZero() bool {
	return c.Name == "" && c.Zone == "" && c.Code == ""
}

// SortKey names the center field the view is ordered by.
type SortKey string

const (
	SortNone     SortKey = ""
	SortID       SortKey = "id"
	SortCode     SortKey = "code"
	SortName     SortKey = "name"
	SortZone     SortKey = "zone"
	SortStatus   SortKey = "status"
	SortCapacity SortKey = "capacity"
)

// SortKeys lists the sortable fields in column order.
var SortKeys = []SortKey{SortCode, SortName, SortZone, SortStatus, SortCapacity, SortID}

// ParseSortKey accepts a field name in any case.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case SortNone, SortID, SortCode, SortName, SortZone, SortStatus, SortCapacity:
		return key, nil
	}
	return SortNone, fmt.Errorf("projection: unknown sort key %q", s)
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortSpec is the single active sort. The zero value keeps dataset order.
type SortSpec struct {
	Key       SortKey
	Direction Direction
}

// Toggle applies a header selection: the active key flips direction, any
// other key becomes active in ascending order.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if key == SortNone {
		return SortSpec{}
	}
	if s.Key == key {
		if s.Direction == Ascending {
			return SortSpec{Key: key, Direction: Descending}
		}
		return SortSpec{Key: key, Direction: Ascending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Project filters all by c and orders the result by s.
func Project(all []center.Center, c Criteria, s SortSpec) []center.Center {
	out := make([]center.Center, 0, len(all))
	for _, r := range all {
		if Matches(r, c) {
			out = append(out, r)
		}
	}
	Sort(out, s)
	return out
}

// Matches applies the substring rules. Name and zone ignore case; code is
// case-sensitive.
func Matches(r center.Center, c Criteria) bool {
	if c.Name != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(c.Name)) {
		return false
	}
	if c.Zone != "" && !strings.Contains(strings.ToLower(r.Zone), strings.ToLower(c.Zone)) {
		return false
	}
	if c.Code != "" && !strings.Contains(r.Code, c.Code) {
		return false
	}
	return true
}

// Partition splits all into matched and excluded records, both in dataset order.
func Partition(all []center.Center, c Criteria) (matched, excluded []center.Center) {
	for _, r := range all {
		if Matches(r, c) {
			matched = append(matched, r)
		} else {
			excluded = append(excluded, r)
		}
	}
	return matched, excluded
}

// Sort orders rows in place. Ties keep their relative order in both directions.
func Sort(rows []center.Center, s SortSpec) {
	if s.Key == SortNone {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if s.Direction == Descending {
			a, b = b, a
		}
		return less(a, b, s.Key)
	})
}

func less(a, b center.Center, key SortKey) bool {
	switch key {
	case SortID:
		return a.ID < b.ID
	case SortCode:
		return a.Code < b.Code
	case SortName:
		return a.Name < b.Name
	case SortZone:
		return a.Zone < b.Zone
	case SortStatus:
		return a.Status < b.Status
	case SortCapacity:
		return a.Capacity < b.Capacity
	}
	return false
}
