// # cmd/cxxconv/ui.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cxxconv/internal/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	stats      *app.RunStats
	runErr     error
	lastUpdate time.Time
}

type updateMsg struct {
	stats *app.RunStats
	err   error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.stats = msg.stats
		m.runErr = msg.err
		m.lastUpdate = time.Now()

		items := []list.Item{}
		if m.runErr != nil {
			items = append(items, item{
				title: "Conversion Failed",
				desc:  m.runErr.Error(),
			})
		}
		if m.stats != nil {
			for _, err := range m.stats.WriteErrors {
				items = append(items, item{
					title: "Write Error",
					desc:  err.Error(),
				})
			}
			for _, warn := range m.stats.Warnings {
				items = append(items, item{
					title: "Unresolved Include",
					desc:  fmt.Sprintf("%q in %s", warn.Include, warn.File),
				})
			}
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var status string
	if m.stats != nil {
		status = statusStyle.Render(fmt.Sprintf("Last run: %v | %d files | %d converted | %d copied",
			m.lastUpdate.Format("15:04:05"), m.stats.AllFiles, m.stats.ConvertedFiles, m.stats.CopiedFiles))
	} else {
		status = statusStyle.Render("Waiting for first run")
	}

	var summary string
	warnings, writeErrors := 0, 0
	if m.stats != nil {
		warnings = len(m.stats.Warnings)
		writeErrors = len(m.stats.WriteErrors)
	}
	switch {
	case m.runErr != nil:
		summary = errorStyle.Render("✗ " + m.runErr.Error())
	case warnings == 0 && writeErrors == 0:
		summary = successStyle.Render("✅ Converted Clean")
	default:
		summary = fmt.Sprintf("⚠️  %s | %s",
			errorStyle.Render(fmt.Sprintf("%d Write Errors", writeErrors)),
			warningStyle.Render(fmt.Sprintf("%d Unresolved", warnings)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Module Conversion Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Conversion Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func (r *runner) watchUI(ctx context.Context, a *app.App, initial *app.RunStats) int {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	w, err := a.Watch(ctx, func(stats *app.RunStats, err error) {
		r.noteRun(stats, err)
		r.recordRun(stats, err)
		p.Send(updateMsg{stats: stats, err: err})
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	defer w.Close()

	go func() {
		p.Send(updateMsg{stats: initial})
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		slog.Error("ui error", "error", err)
		return 1
	}
	return 0
}
