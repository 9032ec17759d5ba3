// Package center holds the practicum center directory: the record type and the
// read-only dataset every other package projects, selects and exports from.
package center

import (
	"errors"
	"fmt"
	"strings"
)

// Center is one practicum placement site. Records are immutable once loaded.
type Center struct {
	ID       string `yaml:"id" json:"id"`
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Zone     string `yaml:"zone" json:"zone"`
	Status   string `yaml:"status" json:"status"`
	Capacity int    `yaml:"capacity" json:"capacity"`
}

var (
	ErrEmptyID     = errors.New("center: id is required")
	ErrDuplicateID = errors.New("center: duplicate id")
	ErrCapacity    = errors.New("center: capacity must be >= 0")
)

// Dataset is the ordered, read-only collection loaded once at startup.
type Dataset struct {
	records []Center
	byID    map[string]int
}

// NewDataset validates records and keeps their input order.
func NewDataset(records []Center) (*Dataset, error) {
	ds := &Dataset{
		records: make([]Center, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for i, c := range records {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("record %d (%q): %w", i, c.Name, ErrEmptyID)
		}
		if _, dup := ds.byID[c.ID]; dup {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrDuplicateID, c.ID)
		}
		if c.Capacity < 0 {
			return nil, fmt.Errorf("record %d (%s): %w", i, c.ID, ErrCapacity)
		}
		ds.byID[c.ID] = len(ds.records)
		ds.records = append(ds.records, c)
	}
	return ds, nil
}

// All returns a copy of the records in dataset order.
func (d *Dataset) All() []Center {
	if d == nil {
		return nil
	}
	out := make([]Center, len(d.records))
	copy(out, d.records)
	return out
}

// ByID looks up a record by its stable id.
func (d *Dataset) ByID(id string) (Center, bool) {
	if d == nil {
		return Center{}, false
	}
	idx, ok := d.byID[id]
	if !ok {
		return Center{}, false
	}
	return d.records[idx], true
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Zones returns the distinct zones in first-seen order.
func (d *Dataset) Zones() []string {
	return d.distinct(func(c Center) string { return c.Zone })
}

// Names returns the distinct center names in first-seen order.
func (d *Dataset) Names() []string {
	return d.distinct(func(c Center) string { return c.Name })
}

func (d *Dataset) distinct(field func(Center) string) []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range d.records {
		v := strings.TrimSpace(field(c))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
