// Package browse renders an interactive terminal browser over one search's
// results, with on-demand detail fetches when a listing is opened.
package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avetisov/jobscout/internal/model"
)

// DetailFetcher loads the full record for a selected listing.
type DetailFetcher interface {
	Details(ctx context.Context, platform, externalID string) (model.Job, error)
}

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// detailFetchedMsg is sent when an async detail fetch completes.
type detailFetchedMsg struct {
	job model.Job
	err error
}

type browseModel struct {
	jobs     []model.Job
	warnings []string
	cursor   int
	width    int
	height   int
	ready    bool

	view           viewState
	detailJob      model.Job
	detailLoading  bool
	detailError    string
	detailViewport viewport.Model
	fetcher        DetailFetcher
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detailViewport.Width = m.width - 4
		m.detailViewport.Height = m.height - 6
		if m.view == viewDetail {
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case detailFetchedMsg:
		m.detailLoading = false
		if msg.err != nil {
			m.detailError = msg.err.Error()
		} else {
			m.detailJob = msg.job
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.jobs)-1 {
			m.cursor++
		}
	case "o":
		if m.cursor < len(m.jobs) {
			openURL(m.jobs[m.cursor].URL)
		}
	case "enter":
		if m.cursor >= len(m.jobs) {
			return m, nil
		}
		m.view = viewDetail
		m.detailJob = m.jobs[m.cursor]
		m.detailError = ""
		m.detailViewport.SetContent(m.renderDetail())
		if m.fetcher != nil && m.detailJob.Description == "" {
			m.detailLoading = true
			job := m.detailJob
			fetcher := m.fetcher
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
				defer cancel()
				full, err := fetcher.Details(ctx, job.Platform, job.ExternalID)
				return detailFetchedMsg{job: full, err: err}
			}
		}
	}
	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.detailJob.URL)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.view == viewDetail {
		return m.viewDetailScreen()
	}
	return m.viewListScreen()
}

func (m browseModel) viewListScreen() string {
	var b strings.Builder
	b.WriteString(titleBarStyle.Render(fmt.Sprintf("JobScout — %d listings", len(m.jobs))))
	b.WriteString("\n\n")

	if len(m.jobs) == 0 {
		b.WriteString(jobSubtitleStyle.Render("  no results"))
		b.WriteString("\n")
	}

	visible := (m.height - 5) / jobItemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.jobs) {
		end = len(m.jobs)
	}

	for i := start; i < end; i++ {
		j := m.jobs[i]
		subtitle := j.Company
		if j.Location != "" {
			subtitle += " · " + j.Location
		}
		subtitle += " · " + j.Platform

		if i == m.cursor {
			b.WriteString(selectedJobTitleStyle.Render("> " + j.Title))
			b.WriteString("\n")
			b.WriteString(selectedJobSubtitleStyle.Render("  " + subtitle))
		} else {
			b.WriteString(jobTitleStyle.Render("  " + j.Title))
			b.WriteString("\n")
			b.WriteString(jobSubtitleStyle.Render("  " + subtitle))
		}
		b.WriteString("\n\n")
	}

	status := "↑/↓/j/k navigate  enter details  o open  q quit"
	if len(m.warnings) > 0 {
		status = fmt.Sprintf("%d source(s) unavailable  ·  %s", len(m.warnings), status)
	}
	b.WriteString(statusBarStyle.Render(status))
	return b.String()
}

func (m browseModel) viewDetailScreen() string {
	var b strings.Builder
	b.WriteString(titleBarStyle.Render("JobScout — listing"))
	b.WriteString("\n\n")
	b.WriteString(m.detailViewport.View())
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render("esc back  o open  ↑/↓ scroll  q quit"))
	return b.String()
}

func (m browseModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	b.WriteString(detailTitleStyle.Render(j.Title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Company", j.Company)
	row("Location", j.Location)
	row("Salary", j.Salary)
	row("Type", j.JobType)
	row("Source", j.Platform)
	if !j.PostedAt.IsZero() {
		row("Posted", j.PostedAt.Format("Jan 2, 2006"))
	}
	row("URL", j.URL)

	b.WriteString("\n")
	switch {
	case m.detailLoading:
		b.WriteString(jobSubtitleStyle.Render("fetching full description..."))
	case m.detailError != "":
		b.WriteString(errStyle.Render("detail fetch failed: " + m.detailError))
	case j.Description != "":
		b.WriteString(j.Description)
	default:
		b.WriteString(jobSubtitleStyle.Render("no description available"))
	}

	return b.String()
}

// Run shows the interactive browser over an aggregation result. fetcher may
// be nil to disable on-demand detail fetches.
func Run(result model.AggregationResult, fetcher DetailFetcher) error {
	m := browseModel{
		jobs:           result.Jobs,
		warnings:       result.Errors,
		fetcher:        fetcher,
		detailViewport: viewport.New(80, 24),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openURL opens the given URL in the system browser. Failures are ignored:
// the URL stays visible in the UI for manual copying.
func openURL(url string) {
	if url == "" {
		return
	}
	switch runtime.GOOS {
	case "darwin":
		exec.Command("open", url).Start()
	case "windows":
		exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		exec.Command("xdg-open", url).Start()
	}
}
