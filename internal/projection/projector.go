package projection

import "github.com/jask/practicum/internal/center"

// Projector memoizes the last projection over a fixed dataset. The cache is
// keyed on the exact (Criteria, SortSpec) pair and holds a single entry.
type Projector struct {
	all []center.Center

	valid    bool
	criteria Criteria
	spec     SortSpec
	result   []center.Center
}

func NewProjector(ds *center.Dataset) *Projector {
	return &Projector{all: ds.All()}
}

// View returns a copy of the projection for c and s.
func (p *Projector) View(c Criteria, s SortSpec) []center.Center {
	if !p.valid || p.criteria != c || p.spec != s {
		p.result = Project(p.all, c, s)
		p.criteria = c
		p.spec = s
		p.valid = true
	}
	out := make([]center.Center, len(p.result))
	copy(out, p.result)
	return out
}

// Total is the size of the unfiltered dataset.
func (p *Projector) Total() int {
	return len(p.all)
}
