package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Out and Err receive all ui output.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	// Colors
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message. Warnings go to stderr.
func PrintWarning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Err, WarningStyle.Render("⚠ "+message))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+message))
}

// PrintStep prints a step indicator
func PrintStep(step int, total int, message string) {
	stepStyle := SecondaryStyle.Render(fmt.Sprintf("[%d/%d]", step, total))
	fmt.Fprintf(Out, "%s %s\n", stepStyle, message)
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(Out).WithData(tableData).Render()
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Fprint(Out, out)
	return nil
}

// modeColors colors the compile mode tags printed before each compiler run.
var modeColors = map[string]*color.Color{
	"single": color.New(color.FgCyan),
	"batch":  color.New(color.FgMagenta, color.Bold),
}

// ModeLabel renders a compile mode as a colored tag such as "[batch]".
// Unknown modes are printed uncolored.
func ModeLabel(mode string) string {
	tag := "[" + mode + "]"
	if c, ok := modeColors[mode]; ok {
		return c.Sprint(tag)
	}
	return tag
}
