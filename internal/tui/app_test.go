package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/delivery"
	"github.com/jask/practicum/internal/projection"
	"github.com/jask/practicum/internal/session"
)

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func flowApplyMsg(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	next, cmd := a.Update(msg)
	got, ok := next.(*App)
	if !ok {
		t.Fatalf("Update returned %T, want *App", next)
	}
	return flowDrainCmd(t, got, cmd)
}

func flowPress(t *testing.T, a *App, key string) *App {
	t.Helper()
	return flowApplyMsg(t, a, flowKey(key))
}

func flowType(t *testing.T, a *App, input string) *App {
	t.Helper()
	for _, r := range input {
		a = flowPress(t, a, string(r))
	}
	return a
}

func flowDrainCmd(t *testing.T, a *App, cmd tea.Cmd) *App {
	t.Helper()
	for i := 0; cmd != nil && i < 32; i++ {
		msg := cmd()
		if msg == nil {
			return a
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return a
		}
		next, nextCmd := a.Update(msg)
		got, ok := next.(*App)
		if !ok {
			t.Fatalf("command update returned %T, want *App", next)
		}
		a = got
		cmd = nextCmd
	}
	if cmd != nil {
		t.Fatal("command chain exceeded max depth")
	}
	return a
}

func testDataset(t *testing.T) *center.Dataset {
	t.Helper()
	ds, err := center.NewDataset([]center.Center{
		{ID: "a", Code: "A1", Name: "Colegio Alpha", Zone: "Norte", Status: "Activo", Capacity: 2},
		{ID: "b", Code: "B1", Name: "Instituto Beta", Zone: "Sur", Status: "Activo", Capacity: 1},
		{ID: "c", Code: "C1", Name: "Escuela Gamma", Zone: "Norte", Status: "Activo", Capacity: 5},
	})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func newFlowApp(t *testing.T, remote delivery.Sink, lock bool) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	sess, err := session.New(testDataset(t), session.Options{
		MaxSize:            2,
		LockWhileUploading: lock,
		Now:                func() time.Time { return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	coord := delivery.NewCoordinator(remote, delivery.LocalSaver{Dir: dir}, nil)
	a := New(context.Background(), sess, coord, nil)
	// Static cursors keep typed keys from returning blink timers.
	for i := range a.identity {
		a.identity[i].Cursor.SetMode(cursor.CursorStatic)
	}
	for i := range a.filters {
		a.filters[i].Cursor.SetMode(cursor.CursorStatic)
	}
	a = flowApplyMsg(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, dir
}

// focusResults moves focus from identity past filters to the results table.
func focusResults(t *testing.T, a *App) *App {
	t.Helper()
	for a.focus != paneResults {
		a = flowPress(t, a, "tab")
	}
	return a
}

func fillIdentity(t *testing.T, a *App) *App {
	t.Helper()
	a = flowType(t, a, "Ana Lopez")
	a = flowPress(t, a, "down")
	return flowType(t, a, "12345678Z")
}

func TestFlowIdentityTyping(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	if a.focus != paneIdentity {
		t.Fatalf("initial focus = %d, want identity", a.focus)
	}
	a = fillIdentity(t, a)
	id := a.sess.Identity()
	if id.Name != "Ana Lopez" || id.NationalID != "12345678Z" {
		t.Fatalf("identity = %+v", id)
	}
	// Printable keys bound elsewhere stay text here.
	a = flowPress(t, a, "up")
	a = flowType(t, a, "q")
	if got := a.sess.Identity().Name; got != "Ana Lopezq" {
		t.Fatalf("name = %q, want %q", got, "Ana Lopezq")
	}
}

func TestFlowAddUntilFull(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = focusResults(t, a)

	a = flowPress(t, a, "a")
	if a.status != "Añadido (1/2)" {
		t.Fatalf("status = %q", a.status)
	}
	a = flowPress(t, a, "a")
	if a.status != "Ya está en tu selección" || a.sess.SelectionLen() != 1 {
		t.Fatalf("duplicate add: status=%q len=%d", a.status, a.sess.SelectionLen())
	}
	a = flowPress(t, a, "j")
	a = flowPress(t, a, "enter")
	a = flowPress(t, a, "j")
	a = flowPress(t, a, "a")
	if !a.statusErr || a.status != "Máximo de 2 centros alcanzado" {
		t.Fatalf("full add: status=%q err=%v", a.status, a.statusErr)
	}
	if a.sess.SelectionLen() != 2 {
		t.Fatalf("selection len = %d, want 2", a.sess.SelectionLen())
	}
	view := a.View()
	if !strings.Contains(view, "2/2") || !strings.Contains(view, "Añadido") {
		t.Fatalf("view missing badge or marker:\n%s", view)
	}
}

func TestFlowSortKeys(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = focusResults(t, a)

	a = flowPress(t, a, "5")
	if got := a.sess.Sort(); got.Key != projection.SortCapacity || got.Direction != projection.Ascending {
		t.Fatalf("sort = %+v", got)
	}
	if ids := rowIDs(a); strings.Join(ids, ",") != "b,a,c" {
		t.Fatalf("ascending = %v", ids)
	}
	a = flowPress(t, a, "5")
	if ids := rowIDs(a); strings.Join(ids, ",") != "c,a,b" {
		t.Fatalf("descending = %v", ids)
	}
	if !strings.Contains(a.View(), "▼") {
		t.Fatal("view missing descending indicator")
	}
}

func rowIDs(a *App) []string {
	var ids []string
	for _, c := range a.sess.View() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestFlowSelectionReorderAndRemove(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = focusResults(t, a)
	a = flowPress(t, a, "a")
	a = flowPress(t, a, "j")
	a = flowPress(t, a, "a")
	a = flowPress(t, a, "tab")
	if a.focus != paneSelection {
		t.Fatalf("focus = %d, want selection", a.focus)
	}

	a = flowPress(t, a, "K")
	if got := a.sess.Selection()[0].ID; got != "a" {
		t.Fatalf("move up at top changed order: first = %q", got)
	}
	a = flowPress(t, a, "J")
	if got := a.sess.Selection()[0].ID; got != "b" || a.selectionCursor != 1 {
		t.Fatalf("after move down: first=%q cursor=%d", got, a.selectionCursor)
	}
	a = flowPress(t, a, "d")
	if a.sess.SelectionLen() != 1 || a.selectionCursor != 0 {
		t.Fatalf("after remove: len=%d cursor=%d", a.sess.SelectionLen(), a.selectionCursor)
	}
}

func TestFlowZoneSuggestion(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = flowPress(t, a, "tab")
	if a.focus != paneFilters {
		t.Fatalf("focus = %d, want filters", a.focus)
	}
	a = flowPress(t, a, "down")
	a = flowType(t, a, "no")
	if a.scope() != scopeSuggest {
		t.Fatalf("scope = %q, want suggest", a.scope())
	}
	a = flowPress(t, a, "enter")
	if got := a.sess.Criteria().Zone; got != "Norte" {
		t.Fatalf("zone filter = %q, want Norte", got)
	}
	if ids := rowIDs(a); strings.Join(ids, ",") != "a,c" {
		t.Fatalf("rows = %v", ids)
	}

	a = flowPress(t, a, "esc")
	if a.sess.Criteria().Zone != "" || len(a.sess.View()) != 3 {
		t.Fatalf("esc did not clear filter: %+v", a.sess.Criteria())
	}
}

func TestFlowSuggestionsReopenOnReturn(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = flowPress(t, a, "tab")
	a = flowPress(t, a, "down")
	a = flowType(t, a, "su")
	if a.scope() != scopeSuggest {
		t.Fatalf("scope = %q, want suggest", a.scope())
	}

	a = flowPress(t, a, "tab")
	if a.activeSuggest() != nil || a.suggestions[filterZone].IsOpen() {
		t.Fatal("suggestions stayed open after leaving the filters")
	}
	for a.focus != paneFilters {
		a = flowPress(t, a, "tab")
	}
	if a.scope() != scopeSuggest {
		t.Fatalf("scope after return = %q, want suggest", a.scope())
	}
	if got := a.suggestions[filterZone].Matches(); len(got) != 1 || got[0] != "Sur" {
		t.Fatalf("matches = %v, want [Sur]", got)
	}

	a = flowPress(t, a, "esc")
	a = flowPress(t, a, "esc")
	if a.sess.Criteria().Zone != "" {
		t.Fatalf("zone filter = %q, want cleared", a.sess.Criteria().Zone)
	}
	a = flowPress(t, a, "down")
	a = flowPress(t, a, "up")
	if a.scope() != scopeFilters {
		t.Fatalf("cleared filter reopened suggestions: scope = %q", a.scope())
	}
}

func TestFlowEmptyDirectory(t *testing.T) {
	ds, err := center.NewDataset(nil)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	sess, err := session.New(ds, session.Options{MaxSize: 2})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	a := New(context.Background(), sess, delivery.NewCoordinator(nil, delivery.LocalSaver{Dir: t.TempDir()}, nil), nil)
	view := a.View()
	if !strings.Contains(view, "No hay centros en el directorio.") {
		t.Fatalf("view missing empty directory message:\n%s", view)
	}
	if strings.Contains(view, "No se encontraron centros con esos filtros.") {
		t.Fatal("empty directory reported as a filter miss")
	}
}

func TestFlowEmptyResults(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = flowPress(t, a, "tab")
	a = flowPress(t, a, "down")
	a = flowPress(t, a, "down")
	a = flowType(t, a, "ZZ")
	if !strings.Contains(a.View(), "No se encontraron centros con esos filtros.") {
		t.Fatal("view missing empty state")
	}
	a = focusResults(t, a)
	a = flowPress(t, a, "a")
	if a.sess.SelectionLen() != 0 {
		t.Fatal("add on empty table changed selection")
	}
}

func TestFlowExportValidation(t *testing.T) {
	a, dir := newFlowApp(t, nil, true)
	a = flowPress(t, a, "ctrl+e")
	if !a.statusErr || !strings.Contains(a.status, "Completa: Nombre, DNI") || !strings.Contains(a.status, "Selecciona al menos un centro") {
		t.Fatalf("status = %q", a.status)
	}
	if !a.sess.NameError() || !a.sess.NationalIDError() {
		t.Fatal("identity error flags not raised")
	}
	if !strings.Contains(a.View(), "obligatorio") {
		t.Fatal("view missing field error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("files written on rejected export: %d", len(entries))
	}

	a = flowType(t, a, "A")
	if a.sess.NameError() {
		t.Fatal("name error not cleared after typing")
	}
}

func TestFlowExportSavesLocally(t *testing.T) {
	a, dir := newFlowApp(t, nil, true)
	a = fillIdentity(t, a)
	a = focusResults(t, a)
	a = flowPress(t, a, "a")
	a = flowPress(t, a, "e")

	if a.sess.InFlight() {
		t.Fatal("export still in flight after report")
	}
	want := filepath.Join(dir, "practicas_ana_lopez.xlsx")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("local copy: %v", err)
	}
	if a.statusErr || !strings.Contains(a.status, "Copia guardada en "+want) {
		t.Fatalf("status = %q", a.status)
	}
	if rep := a.sess.LastReport(); rep == nil || rep.LocalPath != want {
		t.Fatalf("last report = %+v", rep)
	}
}

func TestFlowExportRemote(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	sink, err := delivery.NewScriptSink(srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewScriptSink: %v", err)
	}

	a, _ := newFlowApp(t, sink, true)
	a = fillIdentity(t, a)
	a = focusResults(t, a)
	a = flowPress(t, a, "a")
	a = flowPress(t, a, "e")

	if !strings.Contains(a.status, "Enviado a script") {
		t.Fatalf("status = %q", a.status)
	}
	if got["filename"] != "practicas_ana_lopez.xlsx" || got["fileData"] == "" {
		t.Fatalf("request body = %v", got)
	}
}

func TestFlowExportRemoteFailureKeepsLocalCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	sink, err := delivery.NewScriptSink(srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewScriptSink: %v", err)
	}

	a, dir := newFlowApp(t, sink, true)
	a = fillIdentity(t, a)
	a = focusResults(t, a)
	a = flowPress(t, a, "a")
	a = flowPress(t, a, "e")

	if !a.statusErr || !strings.Contains(a.status, "Error al enviar a script") {
		t.Fatalf("status = %q", a.status)
	}
	if _, err := os.Stat(filepath.Join(dir, "practicas_ana_lopez.xlsx")); err != nil {
		t.Fatalf("local copy missing after remote failure: %v", err)
	}
}

func TestFlowBusyBlocksEdits(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	a = fillIdentity(t, a)
	a = focusResults(t, a)
	a = flowPress(t, a, "a")

	// Start an export without draining its command so it stays in flight.
	next, cmd := a.Update(flowKey("e"))
	a = next.(*App)
	if cmd == nil || !a.sess.InFlight() {
		t.Fatal("export did not start")
	}
	a = flowPress(t, a, "j")
	a = flowPress(t, a, "a")
	if a.sess.SelectionLen() != 1 || a.status != "Exportación en curso, espera a que termine" {
		t.Fatalf("busy add: len=%d status=%q", a.sess.SelectionLen(), a.status)
	}
	a = flowPress(t, a, "e")
	if a.status != "Exportación en curso, espera a que termine" {
		t.Fatalf("second export: status=%q", a.status)
	}
	if !strings.Contains(a.View(), "subiendo") {
		t.Fatal("header missing in-flight marker")
	}

	a = flowDrainCmd(t, a, cmd)
	a = flowPress(t, a, "a")
	if a.sess.SelectionLen() != 2 {
		t.Fatalf("add after export finished: len=%d", a.sess.SelectionLen())
	}
}

func TestFlowQuit(t *testing.T) {
	a, _ := newFlowApp(t, nil, true)
	_, cmd := a.Update(flowKey("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c did not quit")
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	tests := []struct {
		cursor, n, size int
		start, end      int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tc := range tests {
		start, end := window(tc.cursor, tc.n, tc.size)
		if start != tc.start || end != tc.end {
			t.Fatalf("window(%d,%d,%d) = %d,%d want %d,%d", tc.cursor, tc.n, tc.size, start, end, tc.start, tc.end)
		}
		if tc.cursor < start || tc.cursor >= end {
			t.Fatalf("cursor %d outside [%d,%d)", tc.cursor, start, end)
		}
	}
}
