// Package progress renders a live display for a running batch evaluation:
// a progress bar plus pass/fail/error counts. It draws on stderr so report
// JSON on stdout stays pipeable, same as the plain fallback.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fermibench/fermibench/internal/eval"
	"github.com/fermibench/fermibench/internal/model"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// messages
type resultMsg struct {
	outcome eval.Outcome
}

type doneMsg struct {
	report *model.Report
}

// Run executes fn while displaying live progress, and returns fn's report.
// fn receives a callback to invoke once per finished question; Run wires it
// into the display. With plain set (or for non-interactive use) the display
// is one log line per result instead of a TUI.
func Run(total int, title string, plain bool, fn func(onResult func(eval.Outcome)) *model.Report) (*model.Report, error) {
	if plain {
		return runPlain(total, fn), nil
	}

	m := &tuiModel{
		title: title,
		total: total,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	go func() {
		report := fn(func(o eval.Outcome) {
			p.Send(resultMsg{outcome: o})
		})
		p.Send(doneMsg{report: report})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}
	fm := final.(*tuiModel)
	if fm.report == nil {
		return nil, fmt.Errorf("evaluation interrupted")
	}
	return fm.report, nil
}

// runPlain logs one line per result to stderr.
func runPlain(total int, fn func(onResult func(eval.Outcome)) *model.Report) *model.Report {
	var mu sync.Mutex
	done := 0
	return fn(func(o eval.Outcome) {
		mu.Lock()
		done++
		status := "fail"
		if o.Score == 1 {
			status = "pass"
		}
		if o.Result.EstimateErr != "" {
			status = "error"
		}
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", done, total, status, o.Result.Question)
		mu.Unlock()
	})
}

// tuiModel implements tea.Model.
type tuiModel struct {
	title string
	total int
	bar   progress.Model

	done   int
	pass   int
	fail   int
	errors int

	lastQuestion string
	report       *model.Report
	width        int
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 8
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth > 0 {
			m.bar.Width = barWidth
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil

	case resultMsg:
		m.done++
		m.lastQuestion = msg.outcome.Result.Question
		switch {
		case msg.outcome.Result.EstimateErr != "":
			m.errors++
		case msg.outcome.Score == 1:
			m.pass++
		default:
			m.fail++
		}
		return m, nil

	case doneMsg:
		m.report = msg.report
		return m, tea.Quit
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.done, m.total))

	b.WriteString(passStyle.Render(fmt.Sprintf("pass %d", m.pass)))
	b.WriteString(dimStyle.Render("  ·  "))
	b.WriteString(failStyle.Render(fmt.Sprintf("fail %d", m.fail)))
	b.WriteString(dimStyle.Render("  ·  "))
	b.WriteString(errorStyle.Render(fmt.Sprintf("error %d", m.errors)))
	b.WriteString("\n")

	if m.lastQuestion != "" {
		b.WriteString(dimStyle.Render(truncate(m.lastQuestion, m.width)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
