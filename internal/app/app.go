// Package app contains the root application model.
package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/flowbrowser/flowbar/internal/config"
	"github.com/flowbrowser/flowbar/internal/keys"
	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/pubsub"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/application"
	"github.com/flowbrowser/flowbar/internal/ui/sidebar"
	"github.com/flowbrowser/flowbar/internal/ui/styles"
	"github.com/flowbrowser/flowbar/internal/ui/toaster"
)

// debugLines is how many log lines the debug pane keeps.
const debugLines = 6

// dbChangedMsg is sent when the watcher sees a write to the tabs database.
type dbChangedMsg struct{}

// Options wires the model to its environment.
type Options struct {
	Config     config.Config
	ConfigPath string
	Dropper    *reorder.Dropper

	// Changes receives a signal per burst of database writes, usually from
	// watcher.Start. Nil disables auto-refresh.
	Changes <-chan struct{}
	Debug   bool
}

// Model is the root application state.
type Model struct {
	service    *application.Service
	sidebar    sidebar.Model
	toaster    toaster.Model
	keys       keys.KeyMap
	configPath string

	ctx    context.Context
	cancel context.CancelFunc

	storeListener *pubsub.ContinuousListener[application.StoreEvent]
	changes       <-chan struct{}

	debug       bool
	logListener *log.LogListener
	logLines    []string

	width  int
	height int
}

// New creates the root model. Drops go through opts.Dropper, or a dropper on
// service when it is nil.
func New(service *application.Service, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	dropper := opts.Dropper
	if dropper == nil {
		dropper = reorder.NewDropper(service)
	}

	m := Model{
		service: service,
		sidebar: sidebar.New(service, dropper, sidebar.Config{
			Profile:    opts.Config.Profile,
			Space:      opts.Config.Space,
			ShowModes:  opts.Config.UI.ShowModes,
			ShowCounts: opts.Config.UI.ShowCounts,
			TitleWidth: opts.Config.UI.TitleWidth,
		}),
		toaster:       toaster.New(),
		keys:          keys.DefaultKeyMap(),
		configPath:    opts.ConfigPath,
		ctx:           ctx,
		cancel:        cancel,
		storeListener: pubsub.NewContinuousListener(ctx, service.Broker()),
		changes:       opts.Changes,
		debug:         opts.Debug,
	}
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sidebar.Init(), m.storeListener.Listen()}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sidebar = m.sidebar.SetSize(msg.Width, m.sidebarHeight())
		return m, nil

	case tea.KeyMsg:
		if !m.sidebar.Renaming() && !m.sidebar.Dragging() && key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if !m.sidebar.Renaming() && key.Matches(msg, m.keys.Refresh) {
			m.service.Refresh(m.ctx)
			return m, nil
		}

	case toaster.ShowMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case sidebar.SpaceChangedMsg:
		log.Debug(log.CatUI, "space changed", "space", msg.SpaceID)
		return m, nil

	case pubsub.Event[application.StoreEvent]:
		if !m.storeListener.Observe(msg) {
			return m, m.storeListener.Listen()
		}
		log.Debug(log.CatStore, "store event", "op", msg.Payload.Op, "tab", msg.Payload.TabID, "space", msg.Payload.SpaceID)
		return m, tea.Batch(m.sidebar.Reload(), m.storeListener.Listen())

	case dbChangedMsg:
		log.Debug(log.CatWatcher, "database changed, refreshing")
		m.service.Refresh(m.ctx)
		return m, m.waitForChange()

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload.Line, "\n"))
		if len(m.logLines) > debugLines {
			m.logLines = m.logLines[len(m.logLines)-debugLines:]
		}
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()
	}

	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.configPath != "" {
		if id := m.sidebar.SpaceID(); id != "" {
			if err := config.SaveLastSpace(m.configPath, id); err != nil {
				log.ErrorErr(log.CatConfig, "save last space", err)
			}
		}
	}
	m.cancel()
	return m, tea.Quit
}

func (m Model) waitForChange() tea.Cmd {
	ctx, ch := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return dbChangedMsg{}
		}
	}
}

func (m Model) sidebarHeight() int {
	h := m.height - 1
	if m.debug {
		h -= debugLines + 1
	}
	return max(h, 3)
}

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.sidebar.View(), m.toaster.View(m.width)}
	if m.debug {
		parts = append(parts, m.debugView())
	}
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) debugView() string {
	lines := make([]string, 0, debugLines+1)
	lines = append(lines, styles.SectionHeaderStyle.Render("log"))
	for _, l := range m.logLines {
		lines = append(lines, styles.HintStyle.Render(styles.FitWidth(l, m.width)))
	}
	return strings.Join(lines, "\n")
}

// Close stops the listeners started by the model.
func (m Model) Close() {
	m.cancel()
}
