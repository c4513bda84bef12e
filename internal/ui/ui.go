package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixt/internal/formatter"
	"github.com/desertthunder/mixt/internal/library"
	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SourcePickView ViewState = iota
	OptionsView
	MixingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	config *shared.Config
	engine mixer.Engine
	logger *log.Logger

	width  int
	height int

	sourceList list.Model
	listReady  bool

	inputs         []textinput.Model
	focus          int
	disallowShared bool
	formErr        string

	progressChan chan mixer.ProgressUpdate
	progress     mixer.ProgressUpdate
	mixResult    *mixer.MixResult
	exported     *formatter.MixExportResult
	mixErr       error

	err  error
	help help.Model
	keys keyMap
}

type sourcesScannedMsg struct {
	items []sourceItem
	err   error
}

type progressUpdateMsg mixer.ProgressUpdate

type mixCompleteMsg struct {
	result   *mixer.MixResult
	exported *formatter.MixExportResult
	err      error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, config *shared.Config, engine mixer.Engine, logger *log.Logger) *Model {
	if config == nil {
		config = shared.DefaultConfig()
	}
	if engine == nil {
		engine = mixer.NewMixEngine(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Model{
		ctx:    ctx,
		view:   SourcePickView,
		config: config,
		engine: engine,
		logger: logger,
		inputs: newOptionInputs(config),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by scanning the input folder for exports.
func (m *Model) Init() tea.Cmd {
	return m.scanSources()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.sourceList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SourcePickView:
			return m.handleSourcePickKeys(msg)
		case OptionsView:
			return m.handleOptionsKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case sourcesScannedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		m.sourceList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.sourceList.Title = fmt.Sprintf("Playlist exports in %s", m.config.Library.InputFolder)
		m.sourceList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return m, nil

	case progressUpdateMsg:
		m.progress = mixer.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case mixCompleteMsg:
		m.mixResult = msg.result
		m.exported = msg.exported
		m.mixErr = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SourcePickView:
		return m.renderSourcePick()
	case OptionsView:
		return m.renderOptions()
	case MixingView:
		return m.renderMixing()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSourcePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.sourceList.SelectedItem().(sourceItem); ok {
			item.selected = !item.selected
			return m, m.sourceList.SetItem(m.sourceList.Index(), item)
		}

	case key.Matches(msg, m.keys.all):
		items := m.sourceList.Items()
		allSelected := true
		for _, it := range items {
			if item, ok := it.(sourceItem); ok && !item.selected {
				allSelected = false
				break
			}
		}
		next := make([]list.Item, len(items))
		for i, it := range items {
			item := it.(sourceItem)
			item.selected = !allSelected
			next[i] = item
		}
		return m, m.sourceList.SetItems(next)

	case key.Matches(msg, m.keys.enter):
		if len(m.selectedPaths()) == 0 {
			m.formErr = "select at least one playlist"
			return m, nil
		}
		m.formErr = ""
		m.view = OptionsView
		return m, nil
	}

	var cmd tea.Cmd
	m.sourceList, cmd = m.sourceList.Update(msg)
	return m, cmd
}

func (m *Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.formErr = ""
		m.view = SourcePickView
		return m, nil

	case key.Matches(msg, m.keys.shared):
		m.disallowShared = !m.disallowShared
		return m, nil

	case msg.String() == "tab" || msg.String() == "down":
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil

	case msg.String() == "shift+tab" || msg.String() == "up":
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil

	case key.Matches(msg, m.keys.enter):
		form, err := parseForm(m.inputs, m.disallowShared)
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.view = MixingView
		return m, m.startMix(form)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.restart):
		m.view = SourcePickView
		m.mixResult = nil
		m.exported = nil
		m.mixErr = nil
		m.err = nil
		m.progress = mixer.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SourcePickView:
		if m.listReady {
			m.sourceList, cmd = m.sourceList.Update(msg)
		}
	case OptionsView:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(focus int) {
	m.inputs[m.focus].Blur()
	m.focus = focus
	m.inputs[m.focus].Focus()
}

// selectedPaths returns the paths of the toggled-on source items.
func (m *Model) selectedPaths() []string {
	if !m.listReady {
		return nil
	}
	var paths []string
	for _, it := range m.sourceList.Items() {
		if item, ok := it.(sourceItem); ok && item.selected {
			paths = append(paths, item.path)
		}
	}
	return paths
}

func (m *Model) scanSources() tea.Cmd {
	return func() tea.Msg {
		paths, err := library.Scan(m.config.Library.InputFolder)
		if err != nil {
			return sourcesScannedMsg{err: err}
		}
		if len(paths) == 0 {
			return sourcesScannedMsg{err: fmt.Errorf("no .txt playlist exports in %s", m.config.Library.InputFolder)}
		}

		items := make([]sourceItem, len(paths))
		for i, path := range paths {
			rows, _, err := library.ReadExport(path)
			count := len(rows)
			if err != nil {
				count = 0
			}
			// exports start selected, matching the export picker default
			items[i] = sourceItem{path: path, rows: count, selected: true}
		}
		return sourcesScannedMsg{items: items}
	}
}

func (m *Model) startMix(form *mixForm) tea.Cmd {
	paths := m.selectedPaths()
	m.progressChan = make(chan mixer.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		sources := make([]*models.SourcePlaylist, 0, len(paths))
		names := make([]string, 0, len(paths))
		for _, path := range paths {
			src, err := library.LoadSource(path, form.normalize)
			if err != nil {
				m.mixErr = err
				close(progressChan)
				return
			}
			sources = append(sources, src)
			names = append(names, src.Name)
		}

		opts := form.options
		opts.Weights = fillWeights(names, form.percents)

		result, err := m.engine.Run(m.ctx, progressChan, sources, opts)
		if err != nil {
			m.mixErr = err
			close(progressChan)
			return
		}

		exported, err := formatter.WriteMixExports(result, m.config.Library.MixedFolder, "mixed_playlist")
		m.mixResult = result
		m.exported = exported
		m.mixErr = err
		m.logger.Info("mix finished", "tracks", len(result.Tracks), "requested", result.Requested)
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return mixCompleteMsg{result: m.mixResult, exported: m.exported, err: m.mixErr}
		}

		update, ok := <-m.progressChan
		if !ok {
			return mixCompleteMsg{result: m.mixResult, exported: m.exported, err: m.mixErr}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSourcePick() string {
	if !m.listReady {
		return "Scanning playlist folder..."
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	view := fmt.Sprintf("%s\n\n%s", m.sourceList.View(), helpView)
	if m.formErr != "" {
		view = fmt.Sprintf("%s\n%s", view, styles.warn.Render(m.formErr))
	}
	return view
}

func (m *Model) renderOptions() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Mix options (%d playlists)", len(m.selectedPaths()))))
	b.WriteString("\n")

	for i, input := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s: %s\n", cursor, fieldLabels[i], input.View())
	}

	box := "[ ]"
	if m.disallowShared {
		box = "[x]"
	}
	fmt.Fprintf(&b, "\n  %s Drop tracks shared between playlists (ctrl+s)\n", box)

	if m.formErr != "" {
		b.WriteString("\n" + styles.warn.Render(m.formErr) + "\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.shared}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))

	return b.String()
}

func (m *Model) renderMixing() string {
	title := styles.title.Render("Mixing Playlists")

	phase := "Processing..."
	switch m.progress.Phase {
	case mixer.BuildPoolsPhase:
		phase = "Shuffling source pools..."
	case mixer.AllocatePhase:
		phase = "Allocating quotas..."
	case mixer.SelectPhase:
		phase = "Selecting tracks..."
	case mixer.InterleavePhase:
		phase = "Interleaving selections..."
	case mixer.DonePhase:
		phase = "Writing output files..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.mixErr != nil {
		return styles.err.Render(fmt.Sprintf("Mix failed: %v\n\nPress r to retry, q to quit", m.mixErr))
	}

	if m.mixResult == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Mix Complete!")

	var b strings.Builder
	fmt.Fprintf(&b, "\nTracks: %d/%d\n", len(m.mixResult.Tracks), m.mixResult.Requested)
	names := make([]string, 0, len(m.mixResult.Selected))
	for name := range m.mixResult.Selected {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %d/%d\n", name, m.mixResult.Selected[name], m.mixResult.Quotas[name])
	}
	if m.mixResult.Short() {
		b.WriteString(styles.warn.Render("Sources ran out of eligible tracks before the requested total.") + "\n")
	}
	if m.exported != nil {
		b.WriteString("\nFiles written:\n")
		fmt.Fprintf(&b, "  %s\n  %s\n  %s\n", m.exported.CSVFile, m.exported.TextFile, m.exported.AppleFile)
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
