package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dropstage/internal/config"
	"dropstage/internal/domain"
	"dropstage/internal/eventbus"
	"dropstage/internal/scan"
	"dropstage/internal/selection"
	"dropstage/internal/upload"
	"dropstage/internal/ui/views"
)

const noteLifetime = 3 * time.Second

// keyMap defines the widget's key bindings
type keyMap struct {
	NextPane key.Binding
	PrevPane key.Binding
	Submit   key.Binding
	Remove   key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "upload")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp returns the bindings shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Submit, k.Remove, k.Quit}
}

// FullHelp returns all bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Up, k.Down},
		{k.Submit, k.Remove, k.Quit},
	}
}

// Model represents the UI state of one widget instance
type Model struct {
	bus        eventbus.EventBus
	cfg        *config.Config
	store      *selection.Store
	controller *upload.Controller
	scanner    *scan.Service

	picker      filepicker.Model
	pathInput   textinput.Model
	fieldInputs []textinput.Model
	spin        spinner.Model
	help        help.Model
	keys        keyMap
	renderer    *views.Renderer

	focus      views.Focus
	fieldIndex int
	listIndex  int
	width      int
	height     int
	note       string
	noteSeq    int
	scanning   bool
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, bus eventbus.EventBus) *Model {
	fp := filepicker.New()
	fp.CurrentDirectory = cfg.StartDir
	fp.Height = 8

	path := textinput.New()
	path.Placeholder = "/path/to/file-or-folder"
	path.CharLimit = 512

	inputs := make([]textinput.Model, len(cfg.Fields))
	for i, f := range cfg.Fields {
		ti := textinput.New()
		ti.Placeholder = f.Label
		ti.CharLimit = 256
		inputs[i] = ti
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		bus:         bus,
		cfg:         cfg,
		store:       selection.NewStore(bus),
		controller:  upload.NewController(cfg, bus),
		scanner:     scan.NewService(bus),
		picker:      fp,
		pathInput:   path,
		fieldInputs: inputs,
		spin:        sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		renderer:    views.NewRenderer(),
		focus:       views.FocusPicker,
	}
}

// Store exposes the selection store, mainly for tests
func (m *Model) Store() *selection.Store {
	return m.store
}

// Controller exposes the submission controller, mainly for tests
func (m *Model) Controller() *upload.Controller {
	return m.controller
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spin.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submitResultMsg:
		m.controller.ResponseReceived(msg.attempt, msg.outcome)
		if msg.outcome.State == domain.StateSuccess {
			// Selection and form are only reset on success; errors keep
			// everything staged so the user can retry as-is.
			m.store.Clear()
			for i := range m.fieldInputs {
				m.fieldInputs[i].Reset()
			}
			m.listIndex = 0
		}
		return m, nil

	case scanResultMsg:
		m.scanning = false
		if msg.err != nil {
			return m, m.setNote(fmt.Sprintf("scan failed: %v", msg.err))
		}
		if len(msg.files) == 0 {
			return m, m.setNote("no files found under " + msg.root)
		}
		return m, m.stageCandidates(msg.files)

	case clearNoteMsg:
		if msg.seq == m.noteSeq {
			m.note = ""
		}
		return m, nil

	case EventMsg:
		if e, ok := msg.Event.(eventbus.ErrorEvent); ok {
			return m, m.setNote(e.Message)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// View renders the widget
func (m *Model) View() string {
	fields := make([]views.FieldView, len(m.fieldInputs))
	for i := range m.fieldInputs {
		fields[i] = views.FieldView{
			Label: m.cfg.Fields[i].Label,
			Input: m.fieldInputs[i].View(),
		}
	}

	state := views.ViewState{
		Width:        m.width,
		Height:       m.height,
		Focus:        m.focus,
		PickerView:   m.picker.View(),
		PathView:     m.pathInput.View(),
		Fields:       fields,
		FocusedField: m.fieldIndex,
		Files:        m.store.Snapshot(),
		ListIndex:    m.listIndex,
		Outcome:      m.controller.Outcome(),
		SpinnerView:  m.spin.View(),
		Note:         m.note,
		Scanning:     m.scanning,
		ShowSizes:    m.cfg.UISettings.ShowSizes,
		HelpView:     m.help.View(m.keys),
	}
	return m.renderer.Render(state)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.NextPane):
		return m, m.cycleFocus(1)

	case key.Matches(msg, m.keys.PrevPane):
		return m, m.cycleFocus(-1)
	}

	switch m.focus {
	case views.FocusPath:
		if msg.String() == "enter" {
			return m, m.stagePath(m.pathInput.Value())
		}

	case views.FocusForm:
		if msg.String() == "enter" {
			// Enter on the last field submits the form
			if m.fieldIndex == len(m.fieldInputs)-1 {
				return m, m.submit()
			}
			return m, m.cycleFocus(1)
		}

	case views.FocusList:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.listIndex > 0 {
				m.listIndex--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.listIndex < m.store.Len()-1 {
				m.listIndex++
			}
			return m, nil
		case key.Matches(msg, m.keys.Remove):
			return m, m.removeAtCursor()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards a message to the component owning the focus
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case views.FocusPicker:
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			return m, tea.Batch(cmd, m.stagePath(path))
		}

	case views.FocusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)

	case views.FocusForm:
		if m.fieldIndex < len(m.fieldInputs) {
			m.fieldInputs[m.fieldIndex], cmd = m.fieldInputs[m.fieldIndex].Update(msg)
		}
	}

	return m, cmd
}

// cycleFocus moves input focus between the picker, the path field, the
// form fields and the staged list
func (m *Model) cycleFocus(dir int) tea.Cmd {
	m.pathInput.Blur()
	if m.focus == views.FocusForm && m.fieldIndex < len(m.fieldInputs) {
		m.fieldInputs[m.fieldIndex].Blur()
	}

	// Within the form, tab walks the fields before leaving the pane
	if m.focus == views.FocusForm {
		next := m.fieldIndex + dir
		if next >= 0 && next < len(m.fieldInputs) {
			m.fieldIndex = next
			return m.fieldInputs[next].Focus()
		}
	}

	order := []views.Focus{views.FocusPicker, views.FocusPath, views.FocusForm, views.FocusList}
	if len(m.fieldInputs) == 0 {
		order = []views.Focus{views.FocusPicker, views.FocusPath, views.FocusList}
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	m.focus = order[(idx+dir+len(order))%len(order)]

	switch m.focus {
	case views.FocusPath:
		return m.pathInput.Focus()
	case views.FocusForm:
		if dir < 0 {
			m.fieldIndex = len(m.fieldInputs) - 1
		} else {
			m.fieldIndex = 0
		}
		return m.fieldInputs[m.fieldIndex].Focus()
	case views.FocusList:
		if m.listIndex >= m.store.Len() {
			m.listIndex = 0
		}
	}
	return nil
}

// stagePath stats a picked or dropped path and stages it: regular files
// are added directly, directories are scanned recursively
func (m *Model) stagePath(raw string) tea.Cmd {
	path := strings.TrimSpace(raw)
	path = strings.Trim(path, `"'`) // terminals quote dropped paths
	if path == "" {
		return nil
	}

	m.pathInput.Reset() // so the same path can be dropped again after removal

	info, err := os.Stat(path)
	if err != nil {
		return m.setNote(fmt.Sprintf("cannot stage %s: %v", path, err))
	}

	if info.IsDir() {
		m.scanning = true
		root := path
		return tea.Batch(m.spin.Tick, func() tea.Msg {
			files, err := m.scanner.Run(context.Background(), root)
			return scanResultMsg{root: root, files: files, err: err}
		})
	}

	if !info.Mode().IsRegular() {
		return m.setNote(fmt.Sprintf("not a regular file: %s", path))
	}

	return m.stageCandidates([]domain.SelectedFile{{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
	}})
}

// stageCandidates adds candidates to the store and reports duplicates
func (m *Model) stageCandidates(candidates []domain.SelectedFile) tea.Cmd {
	accepted := m.store.AddFiles(candidates)
	skipped := len(candidates) - len(accepted)
	if skipped > 0 {
		return m.setNote(fmt.Sprintf("skipped %d duplicate(s)", skipped))
	}
	return nil
}

// removeAtCursor removes the staged file under the list cursor
func (m *Model) removeAtCursor() tea.Cmd {
	files := m.store.Snapshot()
	if m.listIndex >= len(files) {
		return nil
	}
	removed := files[m.listIndex]
	m.store.Remove(removed.ID)
	if m.listIndex >= m.store.Len() && m.listIndex > 0 {
		m.listIndex--
	}
	return m.setNote("removed " + removed.Name)
}

// submit intercepts the submit action and drives the controller. When the
// attempt is accepted the request runs as a command; its outcome comes
// back as a submitResultMsg.
func (m *Model) submit() tea.Cmd {
	fields := make([]upload.FormValue, len(m.cfg.Fields))
	for i, f := range m.cfg.Fields {
		fields[i] = upload.FormValue{
			Name:     f.Name,
			Value:    strings.TrimSpace(m.fieldInputs[i].Value()),
			Required: f.Required,
		}
	}

	attempt, err := m.controller.SubmitTriggered(m.store.Snapshot(), fields)
	if err != nil {
		// Rejection set the outcome; a busy controller keeps the old one
		return nil
	}

	return tea.Batch(m.spin.Tick, func() tea.Msg {
		outcome := m.controller.Do(context.Background(), attempt)
		return submitResultMsg{attempt: attempt, outcome: outcome}
	})
}

// setNote shows a transient status note that expires on its own
func (m *Model) setNote(text string) tea.Cmd {
	m.note = text
	m.noteSeq++
	seq := m.noteSeq
	return tea.Tick(noteLifetime, func(time.Time) tea.Msg {
		return clearNoteMsg{seq: seq}
	})
}
