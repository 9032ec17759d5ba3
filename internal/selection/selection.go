// Package selection holds the ordered preference list of centers: unique by
// center ID, bounded in size, ranked by position.
package selection

import (
	"errors"
	"fmt"

	"github.com/jask/practicum/internal/center"
)

var (
	ErrCapacityExceeded = errors.New("selection: maximum number of centers reached")
	ErrIndexOutOfRange  = errors.New("selection: index out of range")
	ErrInvalidMax       = errors.New("selection: maximum must be at least 1")
)

// Outcome describes what a mutation did to the list.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeAdded
	OutcomeRemoved
	OutcomeMoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeRemoved:
		return "removed"
	case OutcomeMoved:
		return "moved"
	default:
		return "unchanged"
	}
}

type Direction int

const (
	Up Direction = iota
	Down
)

// List is an ordered, deduplicated, capacity-bounded list of centers.
// Position 0 is the highest preference.
type List struct {
	max   int
	items []center.Center
	ids   map[string]struct{}
}

func New(max int) (*List, error) {
	if max < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMax, max)
	}
	return &List{max: max, ids: make(map[string]struct{}, max)}, nil
}

// Add appends c. A full list rejects every add, including one for a center
// already selected; otherwise re-adding a selected center is a silent no-op.
func (l *List) Add(c center.Center) (Outcome, error) {
	if len(l.items) >= l.max {
		return OutcomeUnchanged, fmt.Errorf("%w (%d)", ErrCapacityExceeded, l.max)
	}
	if l.Contains(c.ID) {
		return OutcomeUnchanged, nil
	}
	l.items = append(l.items, c)
	l.ids[c.ID] = struct{}{}
	return OutcomeAdded, nil
}

func (l *List) Remove(id string) Outcome {
	if !l.Contains(id) {
		return OutcomeUnchanged
	}
	for i, c := range l.items {
		if c.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	delete(l.ids, id)
	return OutcomeRemoved
}

// Move swaps the entry at index with its neighbor in dir. Moving the first
// entry up or the last entry down changes nothing.
func (l *List) Move(index int, dir Direction) (Outcome, error) {
	if index < 0 || index >= len(l.items) {
		return OutcomeUnchanged, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(l.items) {
		return OutcomeUnchanged, nil
	}
	l.items[index], l.items[target] = l.items[target], l.items[index]
	return OutcomeMoved, nil
}

func (l *List) Contains(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Items returns a copy in rank order.
func (l *List) Items() []center.Center {
	out := make([]center.Center, len(l.items))
	copy(out, l.items)
	return out
}

// IndexOf returns the 0-based rank of id or -1.
func (l *List) IndexOf(id string) int {
	for i, c := range l.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) Len() int   { return len(l.items) }
func (l *List) Max() int   { return l.max }
func (l *List) Full() bool { return len(l.items) >= l.max }

func (l *List) Clear() {
	l.items = nil
	l.ids = make(map[string]struct{}, l.max)
}
