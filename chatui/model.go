// Package chatui implements the interactive chat terminal interface.
package chatui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/plxdev/plx-cli/llm"
	"github.com/plxdev/plx-cli/types"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidth      = 24
	textareaHeight = 2
	extraLines     = 2 // 1L spinner + 1L status bar
	asciiLines     = 3
)

// model is the bubbletea model that drives the chat interface.
type model struct {
	// ui components

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	modelList list.Model

	// chat session

	client *llm.Client
	cfg    types.Config

	transcriptBuilder strings.Builder
	responseBuilder   strings.Builder

	// focus management

	currentFocus focus
	leaderActive bool

	// state

	loading       bool
	asciiShow     bool
	selectedModel string
	cancel        context.CancelFunc // cancel for the in-flight request
	lastErr       string             // shown in footer when non-empty

	// layout

	width         int
	height        int
	listWidth     int
	legendHeight  int
	legendWrapped string
}

// focus is the current component in focus.
type focus int

const (
	_ focus = iota
	focusTextarea
	focusViewport
	focusModelList
)

func (f focus) String() string {
	switch f {
	case focusViewport:
		return "transcript"
	case focusModelList:
		return "models"
	case focusTextarea:
		return "insert"
	default:
	}

	return ""
}

func (f focus) style() lipgloss.Style {
	switch f {
	case focusTextarea:
		return insertStatusStyle
	case focusViewport:
		return historyStatusStyle
	case focusModelList:
		return modelsStatusStyle
	default:
		return defaultStatusStyle
	}
}

func (m *model) focus(f focus) {
	m.currentFocus = f

	m.refreshLegend()

	if f == focusTextarea {
		m.textarea.Focus()
		return
	}

	m.textarea.Blur()
}

// New creates a new [model].
func New(client *llm.Client, cfg types.Config) *model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything\n(Press Ctrl+S to submit)"
	ta.Focus()
	ta.Prompt = ""
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetHeight(textareaHeight)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		PaddingTop(0).
		PaddingBottom(0).
		BorderTop(true).
		BorderForeground(lipgloss.Color(mochaSurface0))

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	items := make([]list.Item, 0, len(types.KnownModels))
	longest := 0

	selectedIndex, selectedModel := 0, cfg.Models.Default
	for i, name := range types.KnownModels {
		if l := lipgloss.Width(name); l > longest {
			longest = l
		}

		if name == selectedModel {
			selectedIndex = i
		}

		items = append(items, modelItem(name))
	}

	// ensure we have enough width to show the longest model name, capped at 40.
	lw := max(listWidth, min(longest+2, 40))

	lm := list.New(items, modelPickerDelegate{}, lw, 10)
	lm.Title = "MODEL SELECT"
	lm.Select(selectedIndex)
	lm.SetFilteringEnabled(false)
	lm.SetShowStatusBar(false)
	lm.SetShowHelp(false)
	lm.Styles.Title = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Foreground(lipgloss.Color(mochaLavender)).
		Background(lipgloss.Color(mochaSurface0))

	return &model{
		client:        client,
		cfg:           cfg,
		selectedModel: selectedModel,
		viewport:      viewport.New(0, 0),
		modelList:     lm,
		listWidth:     lw,
		textarea:      ta,
		spinner:       sp,
		asciiShow:     true,
		legendHeight:  1,
		currentFocus:  focusTextarea,
	}
}

func (*model) Init() tea.Cmd { return textinput.Blink }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:cyclop
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.resize(msg)

	case tea.BlurMsg:
		m.textarea.Blur()

	case tea.FocusMsg:
		if m.currentFocus == focusTextarea {
			m.focus(focusTextarea)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		if m.loading {
			return m, cmd
		}

		return m, nil

	case askErr:
		m.loading = false
		m.lastErr = strings.ToUpper(msg.err.Error())
		m.updateViewport()

		return m, nil

	case askStarted:
		return m, waitChunk(msg.ch)

	case streamChunk:
		if m.loading { // first chunk has arrived
			prefix := llmPrefixStyle.Render(m.selectedModel + ": ")
			m.ensureTranscriptNewline()
			m.writeTranscript(prefix)
		}

		m.loading = false

		if msg.err != nil {
			m.lastErr = strings.ToUpper(msg.err.Error())
			m.finalizeResponse()

			return m, nil
		}

		m.responseBuilder.WriteString(msg.content)
		m.updateViewport()

		if m.currentFocus != focusViewport {
			m.viewport.GotoBottom()
		}

		return m, waitChunk(msg.ch)

	case streamDone:
		m.finalizeResponse()
		m.updateViewport()

		return m, nil
	}

	// bubble internal updates

	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		mlCmd tea.Cmd
	)

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.modelList, mlCmd = m.modelList.Update(msg)

	return m, tea.Batch(vpCmd, taCmd, mlCmd)
}

// finalizeResponse moves the accumulated answer into the transcript and
// releases the in-flight request.
func (m *model) finalizeResponse() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.loading = false

	if m.responseBuilder.Len() > 0 {
		m.writeTranscript(m.responseBuilder.String())
		m.responseBuilder.Reset()
		m.ensureTranscriptNewline()
	}
}

func (m *model) View() string {
	left := []string{m.viewport.View()}
	if m.asciiShow {
		left = append([]string{asciiComponentView}, left...)
	}

	main := lipgloss.JoinVertical(lipgloss.Left, left...)

	modeLabel, legendItemStyle := m.currentFocus.String(), m.currentFocus.style()
	if m.leaderActive {
		modeLabel, legendItemStyle = "leader", defaultStatusStyle
	}

	footerItems := []string{
		legendItemStyle.Render(strings.ToUpper(modeLabel)),
	}

	if m.lastErr != "" {
		footerItems = append(footerItems, errorStatusStyle.Render(m.lastErr))
	} else {
		footerItems = append(footerItems,
			truncate(selectedModelStatusStyle, m.selectedModel, 28),
			defaultStatusStyle.Render("search "+string(m.cfg.Research.SearchMode)),
		)
	}

	status := barStyle.Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, footerItems...))

	var b strings.Builder

	b.WriteString(main)
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View())
	}

	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.legendWrapped)
	b.WriteString("\n")
	b.WriteString(status)

	if m.currentFocus == focusModelList {
		return m.renderModelPopup()
	}

	return b.String()
}

// handleKey routes key events based on focus.
func (m *model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+a":
		m.leaderActive = !m.leaderActive

		m.refreshLegend()

		if m.leaderActive {
			m.legendWrapped = lipgloss.NewStyle().Width(m.width).Render(m.legend())
			m.textarea.Blur()

			return m, nil
		}

		m.focus(focusTextarea)

		return m, textinput.Blink

	case "esc": //nolint:goconst
		if m.leaderActive {
			m.leaderActive = false

			m.refreshLegend()
			m.focus(focusTextarea)

			return m, textinput.Blink
		}

	case "ctrl+s":
		if m.loading {
			return m, nil
		}

		question := strings.TrimSpace(m.textarea.Value())
		if question == "" {
			return m, nil
		}

		return m.sendQuestion(question)

	default:
	}

	if m.leaderActive {
		m.refreshLegend()
		return m.handleLeaderKey(k.String())
	}

	switch m.currentFocus {
	case focusViewport:
		return m.handleViewport(k)
	case focusModelList:
		return m.handleModelList(k)
	case focusTextarea:
		return m.handleTextarea(k)
	default:
	}

	return m, nil
}

//nolint:unparam
var leaderMap = map[string]func(*model) (tea.Model, tea.Cmd){
	"q": func(m *model) (tea.Model, tea.Cmd) { return m, tea.Quit },
	"t": func(m *model) (tea.Model, tea.Cmd) { m.focus(focusViewport); return m, nil },
	"m": func(m *model) (tea.Model, tea.Cmd) { m.focus(focusModelList); return m, nil },
	"a": func(m *model) (tea.Model, tea.Cmd) {
		m.asciiShow = !m.asciiShow
		m.focus(focusTextarea)

		resize := func() tea.Msg {
			return tea.WindowSizeMsg{Width: m.width, Height: m.height}
		}

		return m, tea.Batch(textinput.Blink, resize)
	},
	"l": func(m *model) (tea.Model, tea.Cmd) {
		m.transcriptBuilder.Reset()
		m.viewport.SetContent("")
		m.focus(focusTextarea)
		return m, textinput.Blink
	},
}

func (m *model) handleLeaderKey(k string) (tea.Model, tea.Cmd) {
	m.leaderActive = false
	if f, ok := leaderMap[k]; ok {
		return f(m)
	}

	// Unknown leader key, return to textarea
	if m.currentFocus == focusTextarea {
		m.focus(focusTextarea)

		return m, textinput.Blink
	}

	return m, nil
}

func (m *model) handleViewport(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "esc" {
		m.focus(focusTextarea)

		return m, textinput.Blink
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(k)

	return m, cmd
}

func (m *model) handleModelList(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "enter":
		if it, ok := m.modelList.SelectedItem().(modelItem); ok {
			m.selectedModel = string(it)
		}

		m.focus(focusTextarea)

		return m, textinput.Blink
	default:
	}

	var cmd tea.Cmd

	m.modelList, cmd = m.modelList.Update(k)

	return m, cmd
}

func (m *model) handleTextarea(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "esc" {
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil

			m.loading = false
			m.ensureTranscriptNewline()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.textarea, cmd = m.textarea.Update(k)

	return m, cmd
}

// sendQuestion starts a streaming request and wires chunks back to Update.
func (m *model) sendQuestion(q string) (tea.Model, tea.Cmd) {
	// cancel previous request if exists
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.loading = true
	m.lastErr = ""

	m.ensureTranscriptNewline()
	m.writeTranscript(userPrefixStyle.Render("you:") + " " + q + "\n")
	m.updateViewport()

	m.textarea.Reset()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, m.askCmd(ctx, q))
}

func (m *model) resize(w tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	vpWidth := max(w.Width, 1)
	m.viewport.Width = w.Width

	m.textarea.SetWidth(vpWidth)
	m.textarea.SetHeight(textareaHeight)

	m.refreshLegend()

	m.legendHeight = lipgloss.Height(m.legendWrapped)

	reserved := extraLines
	if m.asciiShow {
		reserved += asciiLines
	}

	availHeight := w.Height - m.textarea.Height() - m.legendHeight - reserved

	m.viewport.Height = max(availHeight, 1)
	m.modelList.SetSize(m.listWidth, availHeight)

	wrapped := lipgloss.NewStyle().Width(m.viewport.Width).Render(m.transcriptBuilder.String())

	m.viewport.SetContent(wrapped)

	return m, nil
}

func (m *model) updateViewport() {
	view := m.transcriptBuilder.String()

	if m.responseBuilder.Len() > 0 {
		view += m.responseBuilder.String()
	}

	wrapped := lipgloss.NewStyle().
		Width(m.viewport.Width).
		Render(view)

	m.viewport.SetContent(wrapped)
}

func (m *model) refreshLegend() {
	m.legendWrapped = lipgloss.NewStyle().
		Width(m.width).
		Render(m.legend())
}

func (m *model) legend() string {
	divider := lipgloss.NewStyle().
		Foreground(lipgloss.Color(mochaOverlay2)).
		Render(" • ")

	legendItem := func(k, label string) string {
		return lipgloss.JoinHorizontal(lipgloss.Left,
			keyStyle.Render(k),
			dimStyle.Render(" "+label),
		)
	}

	switch {
	case m.leaderActive:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			legendItem("T", "TRANSCRIPT"), divider,
			legendItem("M", "CHANGE MODEL"), divider,
			legendItem("L", "CLEAR"), divider,
			legendItem("A", m.asciiLegendLabel()), divider,
			legendItem("Q", "QUIT"), divider,
			legendItem("ESC", "CANCEL"),
		)

	case m.currentFocus == focusModelList:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			legendItem("▲/K ▼/J", "SCROLL"), divider,
			legendItem("ENTER", "SELECT MODEL"), divider,
			legendItem("ESC", "CANCEL"),
		)

	case m.currentFocus == focusViewport:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			legendItem("▲/K ▼/J", "SCROLL"), divider,
			legendItem("ESC", "BACK"),
		)

	default:
		return lipgloss.JoinHorizontal(lipgloss.Left,
			legendItem("^S", "SEND"), divider,
			legendItem("ESC", "CANCEL"), divider,
			legendItem("^A", "LEADER MODE"), divider,
			legendItem("^C", "QUIT"),
		)
	}
}

func (m *model) renderModelPopup() string {
	w, h := m.width, m.height

	listW := clamp(30, 54, w-12)
	listH := clamp(8, 16, h-8)

	m.modelList.SetSize(listW, listH)

	modal := modalFrameStyle.Render(m.modelList.View())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modal)
}

func clamp(minV, maxV, v int) int {
	if v < minV {
		return minV
	}

	if v > maxV {
		return maxV
	}

	return v
}

func truncate(style lipgloss.Style, s string, maxl int) string {
	if maxl > 0 && len(s) > maxl {
		if maxl <= 1 {
			return style.Render("...")
		}

		s = s[:maxl-1] + "..."
	}

	return style.Render(s)
}

func (m *model) ensureTranscriptNewline() {
	if m.transcriptBuilder.Len() == 0 {
		return
	}

	if strings.HasSuffix(m.transcriptBuilder.String(), "\n") {
		return
	}

	m.transcriptBuilder.WriteByte('\n')
}

func (m *model) writeTranscript(s string) {
	m.transcriptBuilder.WriteString(s)
}

func (m *model) asciiLegendLabel() string {
	if m.asciiShow {
		return "HIDE ASCII"
	}

	return "SHOW ASCII"
}

// modelItem adapts a model identifier to [list.Item] for the picker popup.
type modelItem string

func (i modelItem) Title() string       { return string(i) }
func (i modelItem) FilterValue() string { return string(i) }
func (modelItem) Description() string   { return "" }

// modelPickerDelegate renders one model name per row, marking the cursor
// with a lead glyph.
type modelPickerDelegate struct{}

func (modelPickerDelegate) Height() int                         { return 1 }
func (modelPickerDelegate) Spacing() int                        { return 0 }
func (modelPickerDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (modelPickerDelegate) Render(w io.Writer, l list.Model, index int, it list.Item) {
	name, ok := it.(modelItem)
	if !ok {
		return
	}

	glyph, style := "  ", itemStyle
	if index == l.Index() {
		glyph, style = "> ", selectedItemStyle
	}

	fmt.Fprint(w, style.Render(glyph+string(name)))
}
