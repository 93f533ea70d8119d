package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tuiwbs/internal/command"
	"tuiwbs/internal/gantt"
	"tuiwbs/internal/lock"
	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
	"tuiwbs/internal/writer"
)

// inputMode distinguishes what an in-flight text edit is for.
type inputMode int

const (
	inputNone inputMode = iota
	inputAddChild
	inputAddSibling
	inputRenameTitle
	inputSetField
)

// appModel is the bubbletea model for the interactive shell: it holds the
// current Project, the active ViewConfig, cursor position, and command-log
// state, and renders the active view via lipgloss.
type appModel struct {
	dir        string
	lockHandle *lock.Handle
	lockWarn   string

	log *command.Log

	viewIdx  int
	scale    model.GanttScale
	cursorID string

	rows   []view.DisplayRow
	width  int
	height int

	input     inputMode
	ti        textinput.Model
	editField string

	collapsed map[string]bool

	statusMsg    string
	showWarnings bool
	showMemo     bool
	confirmQuit  bool

	done bool
}

func newAppModel(dir string, p *model.Project, lh *lock.Handle, lockWarn string) *appModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48
	m := &appModel{
		dir:        dir,
		lockHandle: lh,
		lockWarn:   lockWarn,
		log:        command.NewLog(p),
		scale:      model.ScaleWeek,
		ti:         ti,
		collapsed:  map[string]bool{},
	}
	if lockWarn != "" {
		m.statusMsg = lockWarn
	}
	m.refreshRows()
	rows := m.visibleRows()
	if len(rows) > 0 {
		m.cursorID = rows[0].NodeID
	}
	return m
}

func (m *appModel) project() *model.Project { return m.log.Current() }

func (m *appModel) activeView() model.ViewConfig {
	views := m.project().Config.Views
	if len(views) == 0 {
		return model.DefaultViewConfig()
	}
	if m.viewIdx < 0 || m.viewIdx >= len(views) {
		m.viewIdx = 0
	}
	return views[m.viewIdx]
}

func (m *appModel) refreshRows() {
	m.rows = view.Project(m.project(), m.activeView(), time.Now())
}

// visibleRows returns m.rows with any subtree rooted at a collapsed node
// omitted, the same "twisty hides its children" behavior the row glyphs
// advertise.
func (m *appModel) visibleRows() []view.DisplayRow {
	var out []view.DisplayRow
	skipDepth := -1
	for _, r := range m.rows {
		if skipDepth >= 0 {
			if r.Depth > skipDepth {
				continue
			}
			skipDepth = -1
		}
		out = append(out, r)
		if m.collapsed[r.NodeID] {
			skipDepth = r.Depth
		}
	}
	return out
}

// toggleCollapse hides or reveals the cursor node's children. A leaf node
// has nothing to collapse.
func (m *appModel) toggleCollapse() {
	n := m.currentNode()
	if n == nil || len(n.Children) == 0 {
		return
	}
	m.collapsed[n.ID] = !m.collapsed[n.ID]
}

func (m *appModel) cursorIndex() int {
	for i, r := range m.visibleRows() {
		if r.NodeID == m.cursorID {
			return i
		}
	}
	return -1
}

func (m *appModel) moveCursor(delta int) {
	rows := m.visibleRows()
	if len(rows) == 0 {
		return
	}
	idx := m.cursorIndex()
	if idx < 0 {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.cursorID = rows[idx].NodeID
}

func (m *appModel) Init() tea.Cmd {
	return nil
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.input != inputNone {
			return m.updateInput(msg)
		}
		if m.confirmQuit {
			return m.updateConfirmQuit(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *appModel) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.save()
		if m.anyModified() {
			m.confirmQuit = false
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case "n":
		m.done = true
		return m, tea.Quit
	default:
		m.confirmQuit = false
		return m, nil
	}
}

// save writes every modified document, first verifying the lock is still
// held by this process: a save after a lost lock must abort rather than
// overwrite a file another process may already be writing.
func (m *appModel) save() {
	if m.lockHandle != nil {
		if err := m.lockHandle.Verify(); err != nil {
			m.statusMsg = err.Error()
			return
		}
	}
	if err := writer.WriteProject(m.project()); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = "saved"
}

func (m *appModel) anyModified() bool {
	for _, d := range m.project().Documents {
		if d.Modified {
			return true
		}
	}
	return false
}

func (m *appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.anyModified() {
			m.confirmQuit = true
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "tab":
		views := m.project().Config.Views
		if len(views) > 0 {
			m.viewIdx = (m.viewIdx + 1) % len(views)
			m.refreshRows()
		}
	case "g":
		m.scale = nextScale(m.scale)
	case "space":
		m.applyCommand(&command.SetStatus{NodeID: m.cursorID, Status: nextStatus(m.currentNode())})
	case "u":
		if err := m.log.Undo(); err != nil {
			m.statusMsg = err.Error()
		}
		m.refreshRows()
	case "ctrl+r":
		if err := m.log.Redo(); err != nil {
			m.statusMsg = err.Error()
		}
		m.refreshRows()
	case "K":
		m.applyCommand(&command.MoveUp{NodeID: m.cursorID})
	case "J":
		m.applyCommand(&command.MoveDown{NodeID: m.cursorID})
	case "H":
		m.applyCommand(&command.Outdent{NodeID: m.cursorID})
	case "L":
		m.applyCommand(&command.Indent{NodeID: m.cursorID})
	case "n":
		m.beginInput(inputAddSibling, "")
	case "N":
		m.beginInput(inputAddChild, "")
	case "r":
		n := m.currentNode()
		val := ""
		if n != nil {
			val = n.Title
		}
		m.beginInput(inputRenameTitle, val)
	case "a":
		m.editField = "assignee"
		n := m.currentNode()
		val := ""
		if n != nil {
			val = n.Assignee
		}
		m.beginInput(inputSetField, val)
	case "s":
		m.editField = "start"
		n := m.currentNode()
		val := ""
		if n != nil {
			val = n.Start
		}
		m.beginInput(inputSetField, val)
	case "e":
		m.editField = "end"
		n := m.currentNode()
		val := ""
		if n != nil {
			val = n.End
		}
		m.beginInput(inputSetField, val)
	case "d":
		if m.cursorID != "" {
			m.applyCommand(&command.Delete{NodeID: m.cursorID})
		}
	case "w":
		m.showWarnings = !m.showWarnings
	case "m":
		m.showMemo = !m.showMemo
	case "z":
		m.toggleCollapse()
	case "ctrl+s":
		m.save()
	}
	return m, nil
}

func (m *appModel) beginInput(mode inputMode, value string) {
	m.input = mode
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Focus()
}

func (m *appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.ti.Blur()
		return m, nil
	case tea.KeyEnter:
		m.commitInput()
		m.input = inputNone
		m.ti.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *appModel) commitInput() {
	value := strings.TrimSpace(m.ti.Value())
	switch m.input {
	case inputAddSibling:
		if value == "" || m.cursorID == "" {
			return
		}
		m.applyCommand(&command.AddSibling{AnchorID: m.cursorID, Title: value})
	case inputAddChild:
		if value == "" || m.cursorID == "" {
			return
		}
		m.applyCommand(&command.AddChild{ParentID: m.cursorID, Title: value})
	case inputRenameTitle:
		if value == "" || m.cursorID == "" {
			return
		}
		m.applyCommand(&command.RenameTitle{NodeID: m.cursorID, NewName: value})
	case inputSetField:
		if m.cursorID == "" {
			return
		}
		m.applyCommand(&command.SetField{NodeID: m.cursorID, Field: m.editField, Value: value})
	}
}

func (m *appModel) applyCommand(cmd command.Command) {
	if err := m.log.Apply(cmd); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = ""
	m.refreshRows()
}

func (m *appModel) currentNode() *model.Node {
	if m.cursorID == "" {
		return nil
	}
	n, _ := m.project().FindNode(m.cursorID)
	return n
}

func nextStatus(n *model.Node) model.Status {
	if n == nil {
		return model.StatusTodo
	}
	switch n.Status {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

func nextScale(s model.GanttScale) model.GanttScale {
	switch s {
	case model.ScaleDay:
		return model.ScaleWeek
	case model.ScaleWeek:
		return model.ScaleMonth
	case model.ScaleMonth:
		return model.ScaleQuarter
	case model.ScaleQuarter:
		return model.ScaleYear
	default:
		return model.ScaleDay
	}
}

func (m *appModel) View() string {
	if m.done {
		return ""
	}
	cfg := m.activeView()
	var body string
	if m.showWarnings {
		body = m.renderWarnings()
	} else if m.showMemo {
		body = m.renderMemoPreview()
	} else {
		switch cfg.Type {
		case model.ViewKanban:
			body = m.renderKanban(cfg)
		case model.ViewTableGantt:
			body = m.renderTableGantt(cfg)
		default:
			body = m.renderTable(cfg)
		}
	}

	var b lipgloss.Style
	b = lipgloss.NewStyle().Foreground(colorSurfaceFg).Background(colorSurfaceBg)
	if m.width > 0 {
		b = b.MaxWidth(m.width)
	}

	footer := m.renderFooter(cfg)
	if m.confirmQuit {
		footer = styleMuted().Render("Save before quitting? (y/n/esc)")
	} else if m.input != inputNone {
		footer = fmt.Sprintf("%s: %s", inputLabel(m.input, m.editField), m.ti.View())
	}

	return b.Render(body + "\n" + footer)
}

func inputLabel(mode inputMode, field string) string {
	switch mode {
	case inputAddChild:
		return "new child title"
	case inputAddSibling:
		return "new sibling title"
	case inputRenameTitle:
		return "rename"
	case inputSetField:
		return "set " + field
	default:
		return ""
	}
}

func (m *appModel) renderFooter(cfg model.ViewConfig) string {
	warnCount := len(m.project().Warnings)
	status := m.statusMsg
	if status == "" {
		status = "ready"
	}
	return styleMuted().Render(fmt.Sprintf(
		"[%s] %s  view=%s  warnings=%d  %s   tab:view g:scale space:status n/N:add r:rename a/s/e:fields H/L:indent K/J:move u/ctrl+r:undo/redo z:collapse m:memo w:warnings ctrl+s:save q:quit",
		status, m.dir, cfg.Name, warnCount, glyphArrow(),
	))
}

func (m *appModel) renderWarnings() string {
	warnings := m.project().Warnings
	if len(warnings) == 0 {
		return styleMuted().Render("no parse warnings")
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("%s: %s: %s\n", w.File, w.Kind, w.Message))
	}
	return b.String()
}

// renderMemoPreview renders the cursor node's memo body through glamour, in
// the compact style (no block margins); View shows it in place of the
// active view's body while the preview is toggled on.
func (m *appModel) renderMemoPreview() string {
	n := m.currentNode()
	if n == nil {
		return styleMuted().Render("no node selected")
	}
	memo := strings.TrimSpace(string(n.Memo))
	if memo == "" {
		return styleMuted().Render(n.Title + ": no memo")
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	return renderMarkdownCompact(memo, width)
}

func (m *appModel) layoutGrid(cfg model.ViewConfig) gantt.Grid {
	return gantt.Layout(m.visibleRows(), m.project().Config, m.scale, time.Now())
}
