// Package tui is the terminal front end: identity form, filters, results
// table and the ranked selection, all driven through a session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/practicum/internal/delivery"
	"github.com/jask/practicum/internal/export"
	"github.com/jask/practicum/internal/projection"
	"github.com/jask/practicum/internal/selection"
	"github.com/jask/practicum/internal/session"
	"github.com/jask/practicum/internal/suggest"
)

type pane int

const (
	paneIdentity pane = iota
	paneFilters
	paneResults
	paneSelection
	paneCount
)

const (
	fieldName = iota
	fieldNationalID
)

const (
	filterName = iota
	filterZone
	filterCode
)

// App is the bubbletea model.
type App struct {
	ctx   context.Context
	sess  *session.Session
	coord *delivery.Coordinator
	keys  *KeyRegistry
	log   *zap.Logger

	focus         pane
	identity      [2]textinput.Model
	identityField int
	filters       [3]textinput.Model
	filterField   int
	suggestions   map[int]*suggest.List

	resultCursor    int
	selectionCursor int

	status    string
	statusErr bool
	width     int
	height    int
}

type exportDoneMsg struct {
	report delivery.Report
}

func New(ctx context.Context, sess *session.Session, coord *delivery.Coordinator, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		ctx:   ctx,
		sess:  sess,
		coord: coord,
		keys:  NewKeyRegistry(),
		log:   log,
		suggestions: map[int]*suggest.List{
			filterName: suggest.New(sess.Dataset().Names()),
			filterZone: suggest.New(sess.Dataset().Zones()),
		},
	}
	a.identity[fieldName] = newInput("Nombre y apellidos", 80)
	a.identity[fieldNationalID] = newInput("DNI", 16)
	a.filters[filterName] = newInput("Nombre del centro", 60)
	a.filters[filterZone] = newInput("Zona", 40)
	a.filters[filterCode] = newInput("Código", 16)
	a.setFocus(paneIdentity)
	return a
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case exportDoneMsg:
		a.finishExport(m.report)
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) scope() string {
	switch a.focus {
	case paneIdentity:
		return scopeIdentity
	case paneFilters:
		if s := a.activeSuggest(); s != nil && s.IsOpen() {
			return scopeSuggest
		}
		return scopeFilters
	case paneSelection:
		return scopeSelection
	default:
		return scopeResults
	}
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := m.String()
	switch a.keys.ActionFor(keyName, a.scope()) {
	case actionQuit:
		return a, tea.Quit
	case actionNextPane:
		a.setFocus((a.focus + 1) % paneCount)
		return a, nil
	case actionPrevPane:
		a.setFocus((a.focus + paneCount - 1) % paneCount)
		return a, nil
	case actionExport:
		return a, a.startExport()
	}

	switch a.focus {
	case paneIdentity:
		return a.handleIdentityKey(m)
	case paneFilters:
		return a.handleFilterKey(m)
	case paneResults:
		a.handleResultsKey(keyName)
	case paneSelection:
		a.handleSelectionKey(keyName)
	}
	return a, nil
}

func (a *App) setFocus(p pane) {
	if s := a.activeSuggest(); s != nil {
		s.Close()
	}
	a.focus = p
	for i := range a.identity {
		a.identity[i].Blur()
	}
	for i := range a.filters {
		a.filters[i].Blur()
	}
	switch p {
	case paneIdentity:
		a.identity[a.identityField].Focus()
	case paneFilters:
		a.focusFilter(a.filterField)
	}
}

// focusFilter moves the cursor to filter i and reopens its suggestions when
// the input still holds a query.
func (a *App) focusFilter(i int) {
	a.filters[a.filterField].Blur()
	a.filterField = i
	a.filters[i].Focus()
	if s := a.suggestions[i]; s != nil && a.filters[i].Value() != "" {
		s.Open()
	}
}

func (a *App) handleIdentityKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.keys.ActionFor(m.String(), scopeIdentity) == actionNavigate {
		a.identity[a.identityField].Blur()
		if m.String() == "up" {
			a.identityField = (a.identityField + len(a.identity) - 1) % len(a.identity)
		} else {
			a.identityField = (a.identityField + 1) % len(a.identity)
		}
		a.identity[a.identityField].Focus()
		return a, nil
	}
	var cmd tea.Cmd
	a.identity[a.identityField], cmd = a.identity[a.identityField].Update(m)
	a.sess.SetName(a.identity[fieldName].Value())
	a.sess.SetNationalID(a.identity[fieldNationalID].Value())
	return a, cmd
}

func (a *App) activeSuggest() *suggest.List {
	if a.focus != paneFilters {
		return nil
	}
	return a.suggestions[a.filterField]
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sug := a.activeSuggest(); sug != nil && sug.IsOpen() {
		switch a.keys.ActionFor(m.String(), scopeSuggest) {
		case actionUp:
			sug.Up()
			return a, nil
		case actionDown:
			sug.Down()
			return a, nil
		case actionAccept:
			if v, ok := sug.Accept(); ok {
				a.filters[a.filterField].SetValue(v)
				a.filters[a.filterField].CursorEnd()
				a.syncFilter()
				sug.Update(v)
				sug.Close()
			}
			return a, nil
		case actionClose:
			sug.Close()
			return a, nil
		}
	}

	switch a.keys.ActionFor(m.String(), scopeFilters) {
	case actionNavigate:
		if s := a.activeSuggest(); s != nil {
			s.Close()
		}
		next := (a.filterField + 1) % len(a.filters)
		if m.String() == "up" {
			next = (a.filterField + len(a.filters) - 1) % len(a.filters)
		}
		a.focusFilter(next)
		return a, nil
	case actionClearFilter:
		a.filters[a.filterField].SetValue("")
		a.syncFilter()
		if s := a.activeSuggest(); s != nil {
			s.Update("")
		}
		return a, nil
	}

	var cmd tea.Cmd
	before := a.filters[a.filterField].Value()
	a.filters[a.filterField], cmd = a.filters[a.filterField].Update(m)
	if after := a.filters[a.filterField].Value(); after != before {
		a.syncFilter()
		if s := a.activeSuggest(); s != nil {
			s.Update(after)
		}
	}
	return a, cmd
}

func (a *App) syncFilter() {
	a.sess.SetCriteria(projection.Criteria{
		Name: a.filters[filterName].Value(),
		Zone: a.filters[filterZone].Value(),
		Code: a.filters[filterCode].Value(),
	})
	a.clampCursors()
}

func (a *App) handleResultsKey(keyName string) {
	rows := a.sess.View()
	switch a.keys.ActionFor(keyName, scopeResults) {
	case actionNavigate:
		if keyName == "up" || keyName == "k" {
			if a.resultCursor > 0 {
				a.resultCursor--
			}
		} else if a.resultCursor < len(rows)-1 {
			a.resultCursor++
		}
	case actionJumpTop:
		a.resultCursor = 0
	case actionJumpBottom:
		a.resultCursor = max(len(rows)-1, 0)
	case actionAdd:
		if len(rows) == 0 {
			return
		}
		a.addCenter(rows[a.resultCursor].ID)
	case actionSortCode:
		a.toggleSort(projection.SortCode)
	case actionSortName:
		a.toggleSort(projection.SortName)
	case actionSortZone:
		a.toggleSort(projection.SortZone)
	case actionSortStatus:
		a.toggleSort(projection.SortStatus)
	case actionSortCap:
		a.toggleSort(projection.SortCapacity)
	}
}

func (a *App) toggleSort(key projection.SortKey) {
	spec := a.sess.ToggleSort(key)
	a.setStatus(fmt.Sprintf("Orden: %s %s", key, spec.Direction), false)
}

func (a *App) addCenter(id string) {
	out, err := a.sess.Add(id)
	switch {
	case errors.Is(err, selection.ErrCapacityExceeded):
		a.setStatus(fmt.Sprintf("Máximo de %d centros alcanzado", a.sess.MaxSize()), true)
	case errors.Is(err, session.ErrBusy):
		a.setStatus("Exportación en curso, espera a que termine", true)
	case err != nil:
		a.setStatus(err.Error(), true)
	case out == selection.OutcomeUnchanged:
		a.setStatus("Ya está en tu selección", false)
	default:
		a.setStatus(fmt.Sprintf("Añadido (%d/%d)", a.sess.SelectionLen(), a.sess.MaxSize()), false)
	}
}

func (a *App) handleSelectionKey(keyName string) {
	n := a.sess.SelectionLen()
	var (
		out selection.Outcome
		err error
	)
	switch a.keys.ActionFor(keyName, scopeSelection) {
	case actionNavigate:
		if keyName == "up" || keyName == "k" {
			if a.selectionCursor > 0 {
				a.selectionCursor--
			}
		} else if a.selectionCursor < n-1 {
			a.selectionCursor++
		}
		return
	case actionMoveUp:
		if n == 0 {
			return
		}
		out, err = a.sess.Move(a.selectionCursor, selection.Up)
		if out == selection.OutcomeMoved {
			a.selectionCursor--
		}
	case actionMoveDown:
		if n == 0 {
			return
		}
		out, err = a.sess.Move(a.selectionCursor, selection.Down)
		if out == selection.OutcomeMoved {
			a.selectionCursor++
		}
	case actionRemove:
		if n == 0 {
			return
		}
		id := a.sess.Selection()[a.selectionCursor].ID
		out, err = a.sess.Remove(id)
		if out == selection.OutcomeRemoved {
			a.setStatus("Eliminado de la selección", false)
		}
		a.clampCursors()
	default:
		return
	}
	if errors.Is(err, session.ErrBusy) {
		a.setStatus("Exportación en curso, espera a que termine", true)
	} else if err != nil {
		a.setStatus(err.Error(), true)
	}
}

func (a *App) clampCursors() {
	if n := len(a.sess.View()); a.resultCursor >= n {
		a.resultCursor = max(n-1, 0)
	}
	if n := a.sess.SelectionLen(); a.selectionCursor >= n {
		a.selectionCursor = max(n-1, 0)
	}
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

// startExport validates and serializes synchronously, then hands delivery to
// a command so the UI stays responsive while uploading.
func (a *App) startExport() tea.Cmd {
	art, err := a.sess.PrepareExport()
	if err != nil {
		a.setStatus(exportErrorText(err), true)
		a.log.Info("export rejected", zap.Error(err))
		return nil
	}
	if a.coord.Remote != nil {
		a.setStatus("Enviando…", false)
	} else {
		a.setStatus("Guardando…", false)
	}
	a.log.Info("export started", zap.String("run_id", art.RunID), zap.Int("centers", len(art.Rows)))
	return exportCmd(a.ctx, a.coord, art)
}

func exportCmd(ctx context.Context, coord *delivery.Coordinator, art *export.Artifact) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{report: <-coord.Submit(ctx, art)}
	}
}

func exportErrorText(err error) string {
	var verr *export.ValidationError
	switch {
	case errors.Is(err, session.ErrBusy):
		return "Exportación en curso, espera a que termine"
	case errors.As(err, &verr):
		var parts []string
		if len(verr.Missing) > 0 {
			labels := make([]string, len(verr.Missing))
			for i, f := range verr.Missing {
				labels[i] = f.Label()
			}
			parts = append(parts, "Completa: "+strings.Join(labels, ", "))
		}
		if verr.EmptySelection {
			parts = append(parts, "Selecciona al menos un centro")
		}
		return strings.Join(parts, ". ")
	default:
		return "Error al preparar la exportación: " + err.Error()
	}
}

func (a *App) finishExport(rep delivery.Report) {
	a.sess.FinishExport(rep)
	a.setStatus(reportText(rep), rep.EncodeErr != nil || rep.RemoteErr != nil || rep.LocalErr != nil)
}

func reportText(rep delivery.Report) string {
	if rep.EncodeErr != nil {
		return "Error al generar el archivo: " + rep.EncodeErr.Error()
	}
	var parts []string
	switch {
	case rep.RemoteOK():
		parts = append(parts, "Enviado a "+rep.Remote)
	case rep.Remote != "":
		parts = append(parts, fmt.Sprintf("Error al enviar a %s: %v", rep.Remote, rep.RemoteErr))
	}
	if rep.Saved() {
		parts = append(parts, "Copia guardada en "+rep.LocalPath)
	} else if rep.LocalErr != nil {
		parts = append(parts, "No se pudo guardar la copia local: "+rep.LocalErr.Error())
	}
	return strings.Join(parts, ". ")
}
