package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, true-color hex values (https://catppuccin.com/palette).
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorCode    = colorBlue
	colorFull    = colorRed
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(colorFocus)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dimStyle         = lipgloss.NewStyle().Foreground(colorOverlay1)
	codeStyle        = lipgloss.NewStyle().Foreground(colorCode)
	addedStyle       = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(colorError)
	warnStyle        = lipgloss.NewStyle().Foreground(colorWarning)
	infoStyle        = lipgloss.NewStyle().Foreground(colorInfo)
	badgeStyle       = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface2).Padding(0, 1)
	badgeFullStyle   = badgeStyle.Background(colorFull).Foreground(colorMantle).Bold(true)
	separatorStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)
)
