package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/dash/internal/editor"
	services "github.com/Paintersrp/dash/internal/services/tasks"
)

// Store is the part of the tasks service the board needs.
type Store interface {
	List(ctx context.Context) ([]services.Task, error)
	Update(ctx context.Context, id string, req services.UpdateRequest) error
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type Model struct {
	store  Store
	tasks  *editor.List[services.Task]
	list   list.Model
	keys   keyMap
	filter int
	status string
	now    func() time.Time
}

type keyMap struct {
	advance  key.Binding
	priority key.Binding
	filter   key.Binding
	refresh  key.Binding
	quit     key.Binding
}

type listItem struct {
	task services.Task
	now  time.Time
}

// filters cycle with the filter key; the empty status shows everything.
var filters = []services.Status{"", services.StatusTodo, services.StatusInProgress, services.StatusDone}

type updatedMsg struct {
	title string
	err   error
}

type refreshedMsg struct {
	tasks []services.Task
	err   error
}

func NewModel(ctx context.Context, store Store, opts ...editor.Option) (*Model, error) {
	items, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	lm := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lm.Title = "Tasks"
	lm.DisableQuitKeybindings()

	m := &Model{
		store: store,
		tasks: editor.NewList(items, func(t services.Task) string { return t.ID }, opts...),
		list:  lm,
		keys:  newKeyMap(),
		now:   time.Now,
	}
	m.list.AdditionalShortHelpKeys = m.keys.help
	m.sync()
	return m, nil
}

func newKeyMap() keyMap {
	return keyMap{
		advance: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "advance status"),
		),
		priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		filter: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status filter"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.advance, k.priority, k.filter, k.refresh}
}

func (i listItem) Title() string {
	mark := "[ ]"
	switch i.task.Status {
	case services.StatusInProgress:
		mark = "[~]"
	case services.StatusDone:
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.task.Title)
}

func (i listItem) Description() string {
	parts := []string{string(i.task.Priority)}
	if i.task.Deadline != nil {
		due := "due " + i.task.Deadline.Local().Format("Jan 02 15:04")
		if i.task.Status != services.StatusDone && i.task.Deadline.Before(i.now) {
			due += " (overdue)"
		}
		parts = append(parts, due)
	}
	if i.task.Description != "" {
		parts = append(parts, i.task.Description)
	}
	return strings.Join(parts, " | ")
}

func (i listItem) FilterValue() string {
	return i.task.Title + " " + i.task.Description
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case updatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("update failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("saved %s", msg.title)
		}
		return m, m.sync()
	case refreshedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("refresh failed: %v", msg.err)
			return m, nil
		}
		m.tasks.Set(msg.tasks)
		m.status = fmt.Sprintf("%d tasks", len(msg.tasks))
		return m, m.sync()
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.advance):
			return m, m.change(func(t services.Task) services.UpdateRequest {
				next := nextStatus(t.Status)
				return services.UpdateRequest{Status: &next}
			})
		case key.Matches(msg, m.keys.priority):
			return m, m.change(func(t services.Task) services.UpdateRequest {
				next := nextPriority(t.Priority)
				return services.UpdateRequest{Priority: &next}
			})
		case key.Matches(msg, m.keys.filter):
			m.filter = (m.filter + 1) % len(filters)
			return m, m.sync()
		case key.Matches(msg, m.keys.refresh):
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	lines := []string{m.list.View()}
	if f := filters[m.filter]; f != "" {
		lines = append(lines, statusStyle.Render("showing "+string(f)))
	}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

// change shows the edit in the list right away and sends it in the
// background. The list is redrawn from the store once the request settles,
// which undoes the edit if it failed.
func (m *Model) change(build func(services.Task) services.UpdateRequest) tea.Cmd {
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return nil
	}
	req := build(item.task)
	idx := m.list.Index()
	setCmd := m.list.SetItem(idx, listItem{task: req.Apply(item.task), now: m.now()})

	id := item.task.ID
	send := func() tea.Msg {
		updated, err := m.tasks.Update(context.Background(), id, req.Apply, func(ctx context.Context, _ services.Task) error {
			return m.store.Update(ctx, id, req)
		})
		return updatedMsg{title: updated.Title, err: err}
	}
	return tea.Batch(setCmd, send)
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.List(context.Background())
		return refreshedMsg{tasks: tasks, err: err}
	}
}

// sync rebuilds the visible items from the optimistic list.
func (m *Model) sync() tea.Cmd {
	now := m.now()
	want := filters[m.filter]
	var items []list.Item
	for _, t := range m.tasks.Items() {
		if want != "" && t.Status != want {
			continue
		}
		items = append(items, listItem{task: t, now: now})
	}
	return m.list.SetItems(items)
}

func nextStatus(s services.Status) services.Status {
	switch s {
	case services.StatusTodo:
		return services.StatusInProgress
	case services.StatusInProgress:
		return services.StatusDone
	}
	return services.StatusTodo
}

func nextPriority(p services.Priority) services.Priority {
	switch p {
	case services.PriorityLow:
		return services.PriorityMedium
	case services.PriorityMedium:
		return services.PriorityHigh
	}
	return services.PriorityLow
}

// Run shows the board until the user quits.
func Run(ctx context.Context, store Store, opts ...editor.Option) error {
	m, err := NewModel(ctx, store, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
