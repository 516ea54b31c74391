// Package ui contains the interactive terminal surface of the CLI: a
// browser over saved benchmark results.
package ui

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sysloadbench/internal/results"
)

// browserState selects which pane the browser shows.
type browserState int

const (
	stateBenchmarks browserState = iota
	stateRuns
)

// docItem is one saved results document in the benchmark list.
type docItem struct {
	doc  results.Document
	path string
}

func (i docItem) Title() string { return fmt.Sprintf("%s @ %s", i.doc.Benchmark, i.doc.System.Hostname) }
func (i docItem) Description() string {
	return fmt.Sprintf("%d run(s), saved %s", len(i.doc.RunResults), i.doc.SavedAt.Format("2006-01-02 15:04"))
}
func (i docItem) FilterValue() string { return i.doc.Benchmark }

type browserModel struct {
	state   browserState
	list    list.Model
	table   table.Model
	current *docItem
	err     error
	width   int
	height  int
}

func newBrowserModel(items []list.Item) browserModel {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved Benchmarks"
	l.Styles.Title = browserTitleStyle
	l.SetShowHelp(false)

	columns := []table.Column{
		{Title: "RUN", Width: 24},
		{Title: "ROUNDS", Width: 7},
		{Title: "TIME MEAN (s)", Width: 14},
		{Title: "TIME P99 (s)", Width: 13},
		{Title: "CPU MEAN (%)", Width: 13},
		{Title: "RAM MEAN (MiB)", Width: 15},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(15))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return browserModel{state: stateBenchmarks, list: l, table: t}
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.state == stateBenchmarks {
				if item, ok := m.list.SelectedItem().(docItem); ok {
					m.current = &item
					m.table.SetRows(runRows(item.doc))
					m.state = stateRuns
				}
				return m, nil
			}
		case "esc":
			if m.state == stateRuns {
				m.state = stateBenchmarks
				m.current = nil
				return m, nil
			}
		}
	}

	switch m.state {
	case stateBenchmarks:
		m.list, cmd = m.list.Update(msg)
	case stateRuns:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case stateRuns:
		var b strings.Builder
		b.WriteString(browserTitleStyle.Render("Benchmark: "+m.current.doc.Benchmark) + "\n\n")
		b.WriteString(m.table.View())
		b.WriteString(helpStyle.Render("esc: back • q: quit"))
		return b.String()
	default:
		return m.list.View() + helpStyle.Render("enter: open • q: quit")
	}
}

// runRows flattens the document's per-run statistics into table rows.
func runRows(doc results.Document) []table.Row {
	rows := make([]table.Row, 0, len(doc.RunResults))
	for _, name := range doc.RunNames() {
		rs := doc.RunResults[name]
		rows = append(rows, table.Row{
			name,
			fmt.Sprintf("%d", len(rs.Duration.Raw)),
			fmt.Sprintf("%.4f", rs.Duration.Total.Mean),
			fmt.Sprintf("%.4f", rs.Duration.Total.Percentiles[99]),
			fmt.Sprintf("%.2f", rs.CPU.Total.Mean),
			fmt.Sprintf("%.2f", rs.RAM.Total.Mean/(1024*1024)),
		})
	}
	return rows
}

// findDocuments loads every results.json below dir, sorted by path.
func findDocuments(dir string) ([]docItem, error) {
	var items []docItem
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != results.FileName {
			return nil
		}
		doc, err := results.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		items = append(items, docItem{doc: doc, path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// BrowseResults opens the interactive browser over every results document
// found below dir.
func BrowseResults(dir string) error {
	items, err := findDocuments(dir)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no %s found below %s", results.FileName, dir)
	}

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	p := tea.NewProgram(newBrowserModel(listItems), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("results browser: %w", err)
	}
	return nil
}
