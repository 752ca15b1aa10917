// cli/cli.go
// Package cli provides the terminal progress view for batch exports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/reasoncards/internal/export"
)

// Job runs a batch, reporting progress through report.
type Job func(ctx context.Context, report export.ProgressFunc) (export.Report, error)

// progressMsg carries a progress update from the batch goroutine.
type progressMsg export.Progress

// doneMsg ends the program with the batch result.
type doneMsg struct {
	report export.Report
	err    error
}

// model is the Bubble Tea model for a running batch.
type model struct {
	title      string
	spinner    spinner.Model
	bar        progress.Model
	processed  int
	total      int
	status     string
	done       bool
	cancelling bool
	report     export.Report
	err        error
	cancel     context.CancelFunc
}

var (
	titleStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
)

func newModel(title string, cancel context.CancelFunc) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &model{
		title:   title,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		status:  "waiting for browser...",
		cancel:  cancel,
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
			m.status = "cancelling..."
		}
		return m, nil
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 80 {
			width = 80
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil
	case progressMsg:
		m.processed = msg.Processed
		m.total = msg.Total
		if msg.Status != "" {
			m.status = msg.Status
		}
		return m, nil
	case doneMsg:
		m.done = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.processed) / float64(m.total)
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			b.WriteString(errorStyle.Render("Export failed: " + m.err.Error()))
		} else {
			line := fmt.Sprintf("Exported %d card(s)", len(m.report.Exported))
			if n := len(m.report.Skipped); n > 0 {
				line += fmt.Sprintf(", skipped %d", n)
			}
			b.WriteString(okStyle.Render(line))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.processed, m.total))
	b.WriteString(statusStyle.Render("(q to cancel)"))
	b.WriteString("\n")
	return b.String()
}

// RunProgress runs job under a progress view and returns its result once the
// job has finished. Pressing q cancels the job's context.
func RunProgress(ctx context.Context, title string, job Job) (export.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(title, cancel)
	p := tea.NewProgram(m)

	go func() {
		report, err := job(ctx, func(pr export.Progress) {
			p.Send(progressMsg(pr))
		})
		p.Send(doneMsg{report: report, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return export.Report{}, fmt.Errorf("progress view: %w", err)
	}
	fm, ok := final.(*model)
	if !ok {
		return export.Report{}, errors.New("progress view returned an unexpected model")
	}
	return fm.report, fm.err
}
