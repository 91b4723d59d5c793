// Package tui is the interactive terminal front-end of the chat controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/liut/chatbot/pkg/models/chat"
)

const (
	placeholderIdle    = "Ask me anything... (Enter to send, Alt+Enter for newline, Ctrl+C to exit)"
	placeholderSending = "Waiting for the reply..."

	headerHeight = 2
	footerHeight = 1
	inputHeight  = 5
)

// Submitter is the part of controller.Controller the model drives.
type Submitter interface {
	Greet()
	Submit(ctx context.Context, raw string) bool
}

// messages delivered by the program view
type (
	renderMsg struct {
		role    chat.Role
		content string
	}
	sendingMsg    bool
	clearInputMsg struct{}
	submittedMsg  struct{ accepted bool }
)

type row struct {
	role    chat.Role
	content string
}

// Model is the bubbletea model of the chat screen
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   Submitter

	title    string
	styles   Styles
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	rows      []row
	sending   bool
	submitted string // input handed to the controller, cleared only if unchanged
	width     int
	height    int
}

// New return a model bound to ctrl, requests are cancelled when the model quits
func New(ctx context.Context, ctrl Submitter, title string) Model {
	ta := textarea.New()
	ta.Placeholder = placeholderIdle
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight - 2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	ctx, cancel := context.WithCancel(ctx)
	m := Model{
		ctx:      ctx,
		cancel:   cancel,
		ctrl:     ctrl,
		title:    title,
		styles:   NewStyles(DetectTheme()),
		textarea: ta,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
	m.spinner.Style = m.styles.Spinner
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.greetCmd())
}

func (m Model) greetCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Greet()
		return nil
	}
}

func (m Model) submitCmd(raw string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submittedMsg{accepted: ctrl.Submit(ctx, raw)}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case renderMsg:
		m.rows = append(m.rows, row{role: msg.role, content: msg.content})
		m.refresh()
		return m, nil

	case sendingMsg:
		m.sending = bool(msg)
		if m.sending {
			m.textarea.Placeholder = placeholderSending
			return m, m.spinner.Tick
		}
		m.textarea.Placeholder = placeholderIdle
		return m, nil

	case clearInputMsg:
		if m.textarea.Value() == m.submitted {
			m.textarea.Reset()
		}
		m.submitted = ""
		return m, nil

	case submittedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancel()
		return m, tea.Quit

	case tea.KeyEnter:
		if msg.Alt {
			break // newline
		}
		if m.sending {
			return m, nil
		}
		m.submitted = m.textarea.Value()
		return m, m.submitCmd(m.submitted)

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	chatWidth := width - 2
	if chatWidth < 1 {
		chatWidth = 1
	}
	chatHeight := height - headerHeight - footerHeight - inputHeight
	if chatHeight < 1 {
		chatHeight = 1
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = chatHeight
	m.textarea.SetWidth(chatWidth - 4)

	wrap := chatWidth - 4
	if wrap < 10 {
		wrap = 10
	}
	style := "dark"
	if !m.styles.Theme.IsDark {
		style = "light"
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}
	m.refresh()
}

// refresh re-renders the transcript and scrolls to the newest row
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderRows())
	m.viewport.GotoBottom()
}

// Rows returns the transcript as rendered so far
func (m Model) Rows() []chat.Message {
	out := make([]chat.Message, len(m.rows))
	for i, r := range m.rows {
		out[i] = chat.Message{Role: r.role, Content: r.content}
	}
	return out
}

// Sending reports whether the model shows the sending state
func (m Model) Sending() bool {
	return m.sending
}

// Input returns the current text of the input box
func (m Model) Input() string {
	return m.textarea.Value()
}
