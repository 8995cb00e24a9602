package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// Palette maps semantic roles to terminal colors
type Palette struct {
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Primary lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
	Muted   lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Default lipgloss.TerminalColor
}

// ANSI indexes 0-15 so the user's terminal theme decides the actual hues
var ansiPalette = Palette{
	Success: lipgloss.AdaptiveColor{Light: "2", Dark: "2"},
	Error:   lipgloss.AdaptiveColor{Light: "1", Dark: "1"},
	Primary: lipgloss.AdaptiveColor{Light: "5", Dark: "5"},
	Info:    lipgloss.AdaptiveColor{Light: "6", Dark: "6"},
	Muted:   lipgloss.AdaptiveColor{Light: "8", Dark: "8"},
	Warning: lipgloss.AdaptiveColor{Light: "3", Dark: "3"},
	Accent:  lipgloss.AdaptiveColor{Light: "4", Dark: "4"},
	Default: lipgloss.AdaptiveColor{Light: "0", Dark: "7"},
}

// plainPalette is used for color_theme "none"
var plainPalette = Palette{
	Success: lipgloss.NoColor{},
	Error:   lipgloss.NoColor{},
	Primary: lipgloss.NoColor{},
	Info:    lipgloss.NoColor{},
	Muted:   lipgloss.NoColor{},
	Warning: lipgloss.NoColor{},
	Accent:  lipgloss.NoColor{},
	Default: lipgloss.NoColor{},
}

var (
	ColorSuccess lipgloss.TerminalColor
	ColorError   lipgloss.TerminalColor
	ColorPrimary lipgloss.TerminalColor
	ColorInfo    lipgloss.TerminalColor
	ColorMuted   lipgloss.TerminalColor
	ColorWarning lipgloss.TerminalColor
	ColorAccent  lipgloss.TerminalColor
	ColorDefault lipgloss.TerminalColor

	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style

	StyleTitle       lipgloss.Style
	StyleHeader      lipgloss.Style
	StyleSubtle      lipgloss.Style
	StyleBold        lipgloss.Style
	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

// Status icons
const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconRocket  = "🚀"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconTag     = "🏷"
)

// Category icons
const (
	IconFigure   = "🖼"
	IconTable    = "▦"
	IconSnapshot = "🗄"
	IconModel    = "⚙"
	IconSummary  = "📝"
)

func init() {
	SetTheme("auto")
}

// SetTheme applies a color theme: "auto", "dark", "light" or "none"
func SetTheme(theme string) {
	p := ansiPalette
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "none":
		p = plainPalette
	}
	applyPalette(p)
}

func applyPalette(p Palette) {
	ColorSuccess, ColorError, ColorPrimary, ColorInfo = p.Success, p.Error, p.Primary, p.Info
	ColorMuted, ColorWarning, ColorAccent, ColorDefault = p.Muted, p.Warning, p.Accent, p.Default

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	StyleSuccess = fg(p.Success).Bold(true)
	StyleError = fg(p.Error).Bold(true)
	StylePrimary = fg(p.Primary).Bold(true)
	StyleInfo = fg(p.Info)
	StyleMuted = fg(p.Muted)
	StyleWarning = fg(p.Warning).Bold(true)
	StyleAccent = fg(p.Accent)

	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary
	StyleSubtle = StyleMuted.Italic(true)
	StyleBold = lipgloss.NewStyle().Bold(true)

	StyleTableHeader = StylePrimary
	StyleTableRow = fg(p.Default)
	StyleTableRowAlt = fg(p.Default).Faint(true)
	StyleTableBorder = StyleMuted
}

func withIcon(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

// FormatSuccess returns a success message with icon
func FormatSuccess(msg string) string { return withIcon(StyleSuccess, IconSuccess, msg) }

// FormatError returns an error message with icon
func FormatError(msg string) string { return withIcon(StyleError, IconError, msg) }

// FormatInfo returns an info message with icon
func FormatInfo(msg string) string { return withIcon(StyleInfo, IconInfo, msg) }

// FormatWarning returns a warning message with icon
func FormatWarning(msg string) string { return withIcon(StyleWarning, IconWarning, msg) }

// FormatRocket marks the start of a longer action
func FormatRocket(msg string) string { return withIcon(StylePrimary, IconRocket, msg) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }

func FormatMuted(text string) string { return StyleMuted.Render(text) }

func FormatBold(text string) string { return StyleBold.Render(text) }

// CategoryIcon returns the list icon for an asset category
func CategoryIcon(c domain.Category) string {
	switch c {
	case domain.CategoryFigure:
		return IconFigure
	case domain.CategoryTable:
		return IconTable
	case domain.CategoryDataSnapshot:
		return IconSnapshot
	case domain.CategoryModel:
		return IconModel
	case domain.CategorySummary:
		return IconSummary
	}
	return "?"
}

// FormatCategory renders a category name with its icon
func FormatCategory(c domain.Category) string {
	return CategoryIcon(c) + " " + StyleAccent.Render(string(c))
}
