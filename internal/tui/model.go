package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pdfchat/internal/models"
	"pdfchat/internal/session"
)

// ChatPort is the TUI-facing subset of the session controller.
type ChatPort interface {
	Load(ctx context.Context, path string) error
	Ask(ctx context.Context, question string) (string, error)
	Reset()
	History() []models.Turn
	State() session.State
	Document() string
}

type answerMsg struct {
	err error
}

type loadMsg struct {
	path string
	err  error
}

type typeTickMsg struct{}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	chat     ChatPort
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	ready    bool
	busy     bool
	pending  string // question echoed while the answer is in flight
	revealed int    // runes of the last assistant turn shown so far
	typing   bool
	status   string
}

// New creates the chat model. The session may still be Idle; documents can
// be loaded from the prompt with /load.
func New(chat ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the document, /load <file>, /reset, /quit"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	status := "No document loaded. Use /load <file> to start."
	if chat.State() == session.Indexed {
		status = "Ready: " + chat.Document()
	}
	return Model{chat: chat, input: ti, viewport: viewport.New(0, 0), spin: sp, status: status}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := chatBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		vh := msg.Height - fh - qh - 3 // header, status, spacer
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.busy {
			return m.submit()
		}

	case loadMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Load failed: " + msg.err.Error()
		} else {
			m.status = "Ready: " + msg.path
		}
		m.refresh()
		return m, nil

	case answerMsg:
		m.busy = false
		m.pending = ""
		if msg.err != nil {
			m.status = "Turn failed: " + msg.err.Error()
			m.revealed = -1
		} else {
			m.status = "Ready: " + m.chat.Document()
			// Reveal the completed answer character by character; the
			// session already holds the full string.
			m.typing = true
			m.revealed = 0
			m.refresh()
			return m, typeTick()
		}
		m.refresh()
		return m, nil

	case typeTickMsg:
		if !m.typing {
			return m, nil
		}
		m.revealed += 3
		last := lastAssistantTurn(m.chat.History())
		if m.revealed >= len([]rune(last)) {
			m.typing = false
			m.revealed = -1
		}
		m.refresh()
		if m.typing {
			return m, typeTick()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.busy {
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	switch {
	case text == "/quit":
		return m, tea.Quit

	case text == "/reset":
		m.chat.Reset()
		m.status = "Chat history cleared."
		m.refresh()
		return m, nil

	case strings.HasPrefix(text, "/load "):
		path := strings.TrimSpace(strings.TrimPrefix(text, "/load "))
		m.busy = true
		m.status = "Indexing " + path + "..."
		chat := m.chat
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return loadMsg{path: path, err: chat.Load(context.Background(), path)}
		})

	default:
		if m.chat.State() != session.Indexed {
			m.status = "Load a document first: /load <file>"
			return m, nil
		}
		m.busy = true
		m.pending = text
		m.status = "Thinking..."
		chat := m.chat
		m.refresh()
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			_, err := chat.Ask(context.Background(), text)
			return answerMsg{err: err}
		})
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	turns := m.chat.History()
	if len(turns) == 0 && m.pending == "" {
		return mutedStyle.Render("Upload a document and ask a question.")
	}

	bubbleWidth := m.viewport.Width * 7 / 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, t := range turns {
		content := t.Content
		if m.typing && i == len(turns)-1 && t.Role == models.RoleAssistant {
			runes := []rune(content)
			n := m.revealed
			if n > len(runes) {
				n = len(runes)
			}
			content = string(runes[:n])
		}
		b.WriteString(renderBubble(t.Role, content, bubbleWidth, m.viewport.Width))
		b.WriteString("\n")
	}
	if m.pending != "" {
		b.WriteString(renderBubble(models.RoleUser, m.pending, bubbleWidth, m.viewport.Width))
		b.WriteString("\n")
		b.WriteString(assistantBubbleStyle.MaxWidth(bubbleWidth).Render("..."))
		b.WriteString("\n")
	}
	return b.String()
}

func renderBubble(role models.Role, content string, bubbleWidth, lineWidth int) string {
	if role == models.RoleUser {
		bubble := userBubbleStyle.MaxWidth(bubbleWidth).Render(content)
		return lipgloss.PlaceHorizontal(lineWidth, lipgloss.Right, bubble)
	}
	return assistantBubbleStyle.MaxWidth(bubbleWidth).Render(content)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("pdfchat")
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	statusText := m.status
	if m.busy {
		statusText = m.spin.View() + " " + statusText
	}
	status := statusStyle.Render(statusText)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func lastAssistantTurn(turns []models.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleAssistant {
			return turns[i].Content
		}
	}
	return ""
}

func typeTick() tea.Cmd {
	return tea.Tick(15*time.Millisecond, func(time.Time) tea.Msg { return typeTickMsg{} })
}

var (
	headerStyle          = lipgloss.NewStyle().Bold(true)
	chatBoxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userBubbleStyle      = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("27")).Foreground(lipgloss.Color("15"))
	assistantBubbleStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("15"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
