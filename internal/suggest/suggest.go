// Package suggest ranks autocomplete candidates for the filter inputs.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultLimit caps the number of visible suggestions.
const DefaultLimit = 8

type scored struct {
	value string
	score int
	order int
}

// List is the transient suggestion dropdown attached to one input.
type List struct {
	values  []string
	matches []string
	query   string
	cursor  int
	open    bool
	Limit   int
}

// New deduplicates values case-insensitively, keeping the first spelling.
func New(values []string) *List {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return &List{values: out, Limit: DefaultLimit}
}

// Update re-ranks against query. A non-empty query with matches opens the list.
func (l *List) Update(query string) {
	l.query = strings.TrimSpace(query)
	l.matches = rank(l.values, l.query, l.limit())
	if l.cursor >= len(l.matches) {
		l.cursor = max(len(l.matches)-1, 0)
	}
	l.open = l.query != "" && len(l.matches) > 0
}

func (l *List) limit() int {
	if l.Limit <= 0 {
		return DefaultLimit
	}
	return l.Limit
}

// Open shows the matches of the last query again, if there are any.
func (l *List) Open() {
	l.open = l.query != "" && len(l.matches) > 0
}

func (l *List) Close() {
	l.open = false
	l.cursor = 0
}

func (l *List) IsOpen() bool { return l.open }

func (l *List) Matches() []string {
	return append([]string(nil), l.matches...)
}

func (l *List) Cursor() int { return l.cursor }

func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *List) Down() {
	if l.cursor < len(l.matches)-1 {
		l.cursor++
	}
}

// Accept returns the highlighted value and closes the list.
func (l *List) Accept() (string, bool) {
	if !l.open || len(l.matches) == 0 {
		return "", false
	}
	v := l.matches[l.cursor]
	l.Close()
	return v, true
}

func rank(values []string, query string, limit int) []string {
	if query == "" {
		return nil
	}
	var hits []scored
	for i, v := range values {
		if ok, score := MatchScore(v, query); ok {
			hits = append(hits, scored{value: v, score: score, order: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}

// MatchScore reports whether value is a plausible completion of query and how
// strongly. Subsequence matches score positive; a close misspelling of one of
// value's words still matches with a negative score so it ranks last.
func MatchScore(value, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	if ok, score := fuzzyScore(value, query); ok {
		return true, score
	}
	q := strings.ToLower(query)
	budget := typoBudget(q)
	if budget == 0 {
		return false, 0
	}
	best := -1
	for _, word := range strings.Fields(strings.ToLower(value)) {
		w := []rune(word)
		if n := len([]rune(q)); len(w) > n {
			w = w[:n]
		}
		d := levenshtein.ComputeDistance(string(w), q)
		if d <= budget && (best < 0 || d < best) {
			best = d
		}
	}
	if best < 0 {
		return false, 0
	}
	return true, -best
}

func typoBudget(q string) int {
	switch n := len([]rune(q)); {
	case n < 3:
		return 0
	case n < 6:
		return 1
	default:
		return 2
	}
}

func fuzzyScore(value, query string) (bool, int) {
	label := []rune(strings.ToLower(value))
	q := []rune(strings.ToLower(query))

	matchIdx := make([]int, 0, len(q))
	from := 0
	for _, ch := range q {
		found := false
		for j := from; j < len(label); j++ {
			if label[j] == ch {
				matchIdx = append(matchIdx, j)
				from = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(q)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.Contains(string(label), string(q)) {
		score += 5
	}
	if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}
