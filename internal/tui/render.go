package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/projection"
)

const (
	appName        = "Centros de Prácticas"
	defaultRows    = 12
	wideLayoutMin  = 110
	selectionWidth = 44
)

type column struct {
	title string
	key   projection.SortKey
	width int
}

var resultColumns = []column{
	{title: "Código", key: projection.SortCode, width: 10},
	{title: "Nombre", key: projection.SortName, width: 32},
	{title: "Zona", key: projection.SortZone, width: 14},
	{title: "Estado", key: projection.SortStatus, width: 11},
	{title: "Plazas", key: projection.SortCapacity, width: 6},
}

func (a *App) View() string {
	header := a.renderHeader()
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderIdentity(),
		a.renderFilters(),
		a.renderResults(),
	)
	var body string
	if a.width >= wideLayoutMin {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, a.renderSelection())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, left, a.renderSelection())
	}
	return header + "\n" + body + "\n" + a.renderStatus() + "\n" + a.renderFooter(a.keys.HelpBindings(a.scope()))
}

func (a *App) renderHeader() string {
	ds := a.sess.Dataset()
	line := titleStyle.Render(appName) + "  " + dimStyle.Render(fmt.Sprintf("%d centros", ds.Len()))
	if a.sess.InFlight() {
		line += "  " + warnStyle.Render("subiendo…")
	}
	if a.width <= 0 {
		return headerBarStyle.Render(line)
	}
	return headerBarStyle.Width(a.width).Render(line)
}

func (a *App) pane(p pane, title, content string) string {
	style := paneStyle
	if a.focus == p {
		style = focusedPaneStyle
	}
	return style.Render(titleStyle.Render(title) + "\n" + content)
}

func (a *App) renderIdentity() string {
	row := func(label string, idx int, flagged bool) string {
		line := fmt.Sprintf("%-8s %s", label, a.identity[idx].View())
		if flagged {
			line += "  " + errorStyle.Render("obligatorio")
		}
		return line
	}
	content := row("Nombre", fieldName, a.sess.NameError()) + "\n" +
		row("DNI", fieldNationalID, a.sess.NationalIDError())
	return a.pane(paneIdentity, "Datos del solicitante", content)
}

func (a *App) renderFilters() string {
	labels := []string{"Centro", "Zona", "Código"}
	var lines []string
	for i := range a.filters {
		lines = append(lines, fmt.Sprintf("%-8s %s", labels[i], a.filters[i].View()))
		if a.focus == paneFilters && a.filterField == i {
			if s := a.suggestions[i]; s != nil && s.IsOpen() {
				for j, v := range s.Matches() {
					prefix := "   "
					item := dimStyle.Render(v)
					if j == s.Cursor() {
						prefix = " " + cursorStyle.Render("›") + " "
						item = cursorStyle.Render(v)
					}
					lines = append(lines, strings.Repeat(" ", 9)+prefix+item)
				}
			}
		}
	}
	return a.pane(paneFilters, "Filtros", strings.Join(lines, "\n"))
}

func (a *App) sortIndicator(k projection.SortKey) string {
	spec := a.sess.Sort()
	if spec.Key != k {
		return ""
	}
	if spec.Direction == projection.Descending {
		return " ▼"
	}
	return " ▲"
}

func (a *App) visibleRows() int {
	if a.height <= 0 {
		return defaultRows
	}
	// Everything but the table rows takes about 18 lines.
	return max(a.height-18, 3)
}

func (a *App) renderResults() string {
	rows := a.sess.View()
	var b strings.Builder

	var hdr []string
	for i, col := range resultColumns {
		hdr = append(hdr, padRight(fmt.Sprintf("%d·%s%s", i+1, col.title, a.sortIndicator(col.key)), col.width))
	}
	b.WriteString("  " + tableHeaderStyle.Render(strings.Join(hdr, " ")) + "\n")

	if len(rows) == 0 {
		msg := "No se encontraron centros con esos filtros."
		if a.sess.Criteria().IsZero() {
			msg = "No hay centros en el directorio."
		}
		b.WriteString(dimStyle.Render(msg))
		return a.pane(paneResults, "Centros (0)", b.String())
	}

	start, end := window(a.resultCursor, len(rows), a.visibleRows())
	for i := start; i < end; i++ {
		b.WriteString(a.renderResultRow(rows[i], i == a.resultCursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(rows) > end-start {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%d–%d de %d", start+1, end, len(rows))))
	}
	return a.pane(paneResults, fmt.Sprintf("Centros (%d)", len(rows)), b.String())
}

func (a *App) renderResultRow(c center.Center, isCursor bool) string {
	cells := []string{
		codeStyle.Render(padRight(truncate(c.Code, resultColumns[0].width), resultColumns[0].width)),
		padRight(truncate(c.Name, resultColumns[1].width), resultColumns[1].width),
		padRight(truncate(c.Zone, resultColumns[2].width), resultColumns[2].width),
		padRight(truncate(c.Status, resultColumns[3].width), resultColumns[3].width),
		padRight(strconv.Itoa(c.Capacity), resultColumns[4].width),
	}
	line := strings.Join(cells, " ")
	if a.sess.IsSelected(c.ID) {
		line += " " + addedStyle.Render("Añadido")
	}
	prefix := "  "
	if isCursor && a.focus == paneResults {
		prefix = cursorStyle.Render("▸ ")
	}
	return prefix + line
}

func (a *App) renderSelection() string {
	items := a.sess.Selection()
	n, limit := len(items), a.sess.MaxSize()
	badge := badgeStyle.Render(fmt.Sprintf("%d/%d", n, limit))
	if a.sess.Full() {
		badge = badgeFullStyle.Render(fmt.Sprintf("%d/%d", n, limit))
	}
	title := titleStyle.Render("Tu selección") + " " + badge

	var b strings.Builder
	if n == 0 {
		b.WriteString(dimStyle.Render("No has seleccionado ningún centro.\nAñade centros desde la tabla."))
	}
	for i, c := range items {
		prefix := "  "
		if i == a.selectionCursor && a.focus == paneSelection {
			prefix = cursorStyle.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("%s%2d. %s\n", prefix, i+1, truncate(c.Name, selectionWidth-8)))
		b.WriteString("      " + codeStyle.Render(c.Code) + separatorStyle.Render(" · ") + dimStyle.Render(c.Zone))
		if i < n-1 {
			b.WriteString("\n")
		}
	}

	style := paneStyle
	if a.focus == paneSelection {
		style = focusedPaneStyle
	}
	return style.Width(selectionWidth).Render(title + "\n" + b.String())
}

func (a *App) renderStatus() string {
	text := strings.ReplaceAll(a.status, "\n", " ")
	switch {
	case a.statusErr:
		text = errorStyle.Render(text)
	case text != "":
		text = infoStyle.Render(text)
	}
	if a.width <= 0 {
		return statusBarStyle.Render(text)
	}
	return statusBarStyle.Width(a.width).Render(text)
}

func (a *App) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if a.width <= 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(content)
}

// window returns the [start, end) slice of n rows that keeps cursor visible.
func window(cursor, n, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
