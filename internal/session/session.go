// Package session owns every piece of view state the UI renders: filters,
// sort, selection, identity and the in-flight export flag. All user actions
// go through it so the invariants live in one place.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/delivery"
	"github.com/jask/practicum/internal/export"
	"github.com/jask/practicum/internal/projection"
	"github.com/jask/practicum/internal/selection"
)

// ErrBusy rejects mutations while an export is being delivered.
var ErrBusy = errors.New("session: export in progress")

// FilterField names one of the three filter inputs.
type FilterField int

const (
	FilterName FilterField = iota
	FilterZone
	FilterCode
)

// Options configure a session.
type Options struct {
	MaxSize            int
	Schema             string
	Title              string
	LockWhileUploading bool
	Now                func() time.Time
}

// Session is single-owner state; callers serialize access (the UI loop does).
type Session struct {
	dataset   *center.Dataset
	projector *projection.Projector
	criteria  projection.Criteria
	sort      projection.SortSpec
	selected  *selection.List
	identity  export.Identity

	schema     string
	serializer export.Serializer
	lock       bool
	now        func() time.Time

	nameErr    bool
	idErr      bool
	inFlight   bool
	lastReport *delivery.Report
}

func New(ds *center.Dataset, opts Options) (*Session, error) {
	list, err := selection.New(opts.MaxSize)
	if err != nil {
		return nil, err
	}
	schema := opts.Schema
	if schema == "" {
		schema = export.DefaultSchema
	}
	if _, err := export.Lookup(schema); err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		dataset:    ds,
		projector:  projection.NewProjector(ds),
		selected:   list,
		schema:     schema,
		serializer: export.Serializer{Title: opts.Title},
		lock:       opts.LockWhileUploading,
		now:        now,
	}, nil
}

func (s *Session) Dataset() *center.Dataset { return s.dataset }

func (s *Session) Criteria() projection.Criteria { return s.criteria }

func (s *Session) Sort() projection.SortSpec { return s.sort }

// SetCriteria replaces the filter wholesale.
func (s *Session) SetCriteria(c projection.Criteria) {
	s.criteria = c
}

func (s *Session) SetFilterField(f FilterField, value string) {
	switch f {
	case FilterName:
		s.criteria.Name = value
	case FilterZone:
		s.criteria.Zone = value
	case FilterCode:
		s.criteria.Code = value
	}
}

// ToggleSort applies a header selection for key.
func (s *Session) ToggleSort(key projection.SortKey) projection.SortSpec {
	s.sort = s.sort.Toggle(key)
	return s.sort
}

// View is the current filtered and sorted result set.
func (s *Session) View() []center.Center {
	return s.projector.View(s.criteria, s.sort)
}

func (s *Session) busy() bool {
	return s.lock && s.inFlight
}

func (s *Session) Add(id string) (selection.Outcome, error) {
	if s.busy() {
		return selection.OutcomeUnchanged, ErrBusy
	}
	c, ok := s.dataset.ByID(id)
	if !ok {
		return selection.OutcomeUnchanged, fmt.Errorf("session: unknown center %q", id)
	}
	return s.selected.Add(c)
}

func (s *Session) Remove(id string) (selection.Outcome, error) {
	if s.busy() {
		return selection.OutcomeUnchanged, ErrBusy
	}
	return s.selected.Remove(id), nil
}

func (s *Session) Move(index int, dir selection.Direction) (selection.Outcome, error) {
	if s.busy() {
		return selection.OutcomeUnchanged, ErrBusy
	}
	return s.selected.Move(index, dir)
}

func (s *Session) Selection() []center.Center { return s.selected.Items() }

func (s *Session) IsSelected(id string) bool { return s.selected.Contains(id) }

func (s *Session) SelectionLen() int { return s.selected.Len() }

func (s *Session) MaxSize() int { return s.selected.Max() }

func (s *Session) Full() bool { return s.selected.Full() }

func (s *Session) Identity() export.Identity { return s.identity }

// SetName updates the applicant name and clears its error once filled in.
func (s *Session) SetName(v string) {
	s.identity.Name = v
	if strings.TrimSpace(v) != "" {
		s.nameErr = false
	}
}

// SetNationalID updates the DNI and clears its error once filled in.
func (s *Session) SetNationalID(v string) {
	s.identity.NationalID = v
	if strings.TrimSpace(v) != "" {
		s.idErr = false
	}
}

func (s *Session) NameError() bool { return s.nameErr }

func (s *Session) NationalIDError() bool { return s.idErr }

func (s *Session) Schema() string { return s.schema }

func (s *Session) InFlight() bool { return s.inFlight }

// LastReport is the most recent delivery outcome, nil before the first export.
func (s *Session) LastReport() *delivery.Report { return s.lastReport }

// PrepareExport validates identity and selection, builds the artifact and
// marks an export in flight. On failure nothing but the field error flags
// changes.
func (s *Session) PrepareExport() (*export.Artifact, error) {
	if s.inFlight {
		return nil, ErrBusy
	}
	items := s.selected.Items()
	if err := export.Validate(s.schema, s.identity, items); err != nil {
		var verr *export.ValidationError
		if errors.As(err, &verr) {
			s.nameErr = verr.Has(export.FieldName)
			s.idErr = verr.Has(export.FieldNationalID)
		}
		return nil, err
	}
	a, err := s.serializer.Serialize(s.identity, items, s.schema, s.now())
	if err != nil {
		return nil, err
	}
	s.inFlight = true
	return a, nil
}

// FinishExport records the delivery outcome and releases the in-flight flag.
func (s *Session) FinishExport(rep delivery.Report) {
	s.inFlight = false
	s.lastReport = &rep
}
