package cli

import "github.com/charmbracelet/lipgloss"

// ANSI 256 colors, rustc palette.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	stylePipe    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleSQL     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func render(style lipgloss.Style, s string) string {
	if !EnableColors() {
		return s
	}
	return style.Render(s)
}

// Error returns text styled as an error label.
func Error(s string) string { return render(styleError, s) }

// Warning returns text styled as a warning label.
func Warning(s string) string { return render(styleWarning, s) }

// Note returns text styled as a note label.
func Note(s string) string { return render(styleNote, s) }

// Help returns text styled as a help label.
func Help(s string) string { return render(styleHelp, s) }

// Success returns text styled as a success label.
func Success(s string) string { return render(styleSuccess, s) }

// Code returns an error code such as E5001.
func Code(s string) string { return render(styleCode, s) }

// Pipe returns the gutter character.
func Pipe() string { return render(stylePipe, "|") }

// Arrow returns the location arrow.
func Arrow() string { return render(stylePipe, "-->") }

// Bold returns bold text, used for file paths and headers.
func Bold(s string) string { return render(styleBold, s) }

// Dim returns muted text.
func Dim(s string) string { return render(styleDim, s) }

// SQL returns a highlighted SQL statement.
func SQL(s string) string { return render(styleSQL, s) }
