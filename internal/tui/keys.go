package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps keys to actions per scope, falling back to the global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal    = "global"
	scopeIdentity  = "identity"
	scopeFilters   = "filters"
	scopeSuggest   = "suggest"
	scopeResults   = "results"
	scopeSelection = "selection"
)

const (
	actionQuit        Action = "quit"
	actionNextPane    Action = "next_pane"
	actionPrevPane    Action = "prev_pane"
	actionExport      Action = "export"
	actionNavigate    Action = "navigate"
	actionUp          Action = "up"
	actionDown        Action = "down"
	actionAdd         Action = "add"
	actionRemove      Action = "remove"
	actionMoveUp      Action = "move_up"
	actionMoveDown    Action = "move_down"
	actionSortCode    Action = "sort_code"
	actionSortName    Action = "sort_name"
	actionSortZone    Action = "sort_zone"
	actionSortStatus  Action = "sort_status"
	actionSortCap     Action = "sort_capacity"
	actionClearFilter Action = "clear_filter"
	actionAccept      Action = "accept"
	actionClose       Action = "close"
	actionJumpTop     Action = "jump_top"
	actionJumpBottom  Action = "jump_bottom"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")
	reg(scopeGlobal, actionNextPane, []string{"tab"}, "next pane")
	reg(scopeGlobal, actionPrevPane, []string{"shift+tab"}, "prev pane")
	reg(scopeGlobal, actionExport, []string{"ctrl+e"}, "export")

	// Text panes: printable keys belong to the inputs.
	reg(scopeIdentity, actionNavigate, []string{"up/down", "up", "down", "enter"}, "field")
	reg(scopeIdentity, actionExport, []string{"ctrl+e"}, "export")
	reg(scopeIdentity, actionNextPane, []string{"tab"}, "next pane")

	reg(scopeFilters, actionNavigate, []string{"up/down", "up", "down", "enter"}, "field")
	reg(scopeFilters, actionClearFilter, []string{"esc"}, "clear")
	reg(scopeFilters, actionNextPane, []string{"tab"}, "next pane")

	reg(scopeSuggest, actionUp, []string{"up"}, "prev")
	reg(scopeSuggest, actionDown, []string{"down"}, "next")
	reg(scopeSuggest, actionAccept, []string{"enter"}, "accept")
	reg(scopeSuggest, actionClose, []string{"esc"}, "close")

	reg(scopeResults, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeResults, actionAdd, []string{"enter", "a", "space"}, "add")
	reg(scopeResults, actionSortCode, []string{"1"}, "code")
	reg(scopeResults, actionSortName, []string{"2"}, "name")
	reg(scopeResults, actionSortZone, []string{"3"}, "zone")
	reg(scopeResults, actionSortStatus, []string{"4"}, "status")
	reg(scopeResults, actionSortCap, []string{"5"}, "places")
	reg(scopeResults, actionJumpTop, []string{"g"}, "top")
	reg(scopeResults, actionJumpBottom, []string{"G"}, "bottom")
	reg(scopeResults, actionExport, []string{"e"}, "export")
	reg(scopeResults, actionNextPane, []string{"tab"}, "next pane")
	reg(scopeResults, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeSelection, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeSelection, actionMoveUp, []string{"K", "shift+up"}, "move up")
	reg(scopeSelection, actionMoveDown, []string{"J", "shift+down"}, "move down")
	reg(scopeSelection, actionRemove, []string{"d", "x", "delete"}, "remove")
	reg(scopeSelection, actionExport, []string{"e"}, "export")
	reg(scopeSelection, actionNextPane, []string{"tab"}, "next pane")
	reg(scopeSelection, actionQuit, []string{"q", "ctrl+c"}, "quit")

	return r
}

// Register adds b to each of its scopes. A binding whose keys collide with an
// existing one in the same scope is skipped.
func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

// ActionFor is Lookup reduced to its action; empty when unbound.
func (r *KeyRegistry) ActionFor(keyName, scope string) Action {
	if b := r.Lookup(keyName, scope); b != nil {
		return b.Action
	}
	return ""
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	for _, k := range keys {
		if _, ok := r.indexByScope[scope][k]; ok {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Single uppercase keys stay distinct from their lowercase form.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
