package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperqa/internal/answer"
	"paperqa/internal/service"
	"paperqa/internal/tokenize"
)

// QAPort is the TUI-facing subset of the question-answering session.
type QAPort interface {
	Ask(ctx context.Context, question string) (answer.Answer, error)
	History() []service.Message
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx       context.Context
	session   QAPort
	input     textinput.Model
	viewport  viewport.Model
	title     string
	summary   string
	status    string
	history   []service.Message
	answer    answer.Answer
	cursor    int
	busy      bool
	ready     bool
	lastQuery string
}

// answerMsg carries the outcome of an Ask issued from Update.
type answerMsg struct {
	question string
	answer   answer.Answer
	err      error
}

// New creates a new TUI model instance. caption and summary describe the
// loaded document and are shown in the header.
func New(ctx context.Context, session QAPort, title, caption, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Haz una pregunta específica sobre el PDF..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		session:  session,
		input:    ti,
		viewport: vp,
		title:    title,
		summary:  summary,
		status:   caption,
		history:  session.History(),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around the chat and query boxes
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.refresh()
		return m, nil
	case answerMsg:
		m.busy = false
		m.history = m.session.History()
		m.lastQuery = msg.question
		m.cursor = 0
		if msg.err != nil {
			m.answer = answer.Answer{}
			m.status = service.UserMessage(msg.err)
		} else {
			m.answer = msg.answer
			m.status = fmt.Sprintf("%d fuentes (%s)", len(msg.answer.Citations), msg.answer.Mode)
		}
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.input.SetValue("")
				m.status = "Buscando en el documento..."
				m.history = append(m.history, service.Message{Speaker: service.SpeakerUser, Text: q})
				m.refresh()
				return m, m.ask(q)
			}
		case "down":
			if n := len(m.answer.Citations); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.refresh()
				return m, nil
			}
		case "up":
			if n := len(m.answer.Citations); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.refresh()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		ans, err := session.Ask(ctx, q)
		return answerMsg{question: q, answer: ans, err: err}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	chat := chatBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript() + m.renderCurrentCitation())
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return "Todavía no hay preguntas."
	}
	var b strings.Builder
	for i, msg := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Speaker == service.SpeakerUser {
			b.WriteString(userStyle.Render("Tú: "))
		} else {
			b.WriteString(assistantStyle.Render("PDF: "))
		}
		b.WriteString(msg.Text)
	}
	return b.String()
}

func (m Model) renderCurrentCitation() string {
	if len(m.answer.Citations) == 0 {
		return ""
	}
	c := m.answer.Citations[m.cursor]
	title := fmt.Sprintf("[%s] fragmento %d  %d/%d  score=%.3f", c.Tag, c.Position+1, m.cursor+1, len(m.answer.Citations), c.Score)
	body := highlightBestSentence(c.Text, m.lastQuery)
	return "\n\n" + sourceTitleStyle.Render(title) + "\n" + body
}

var (
	chatBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Underline(true)
	sentenceRe       = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
)

// highlightBestSentence emphasizes the sentence sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := tokenize.Set(query)
	bestIdx := -1
	bestScore := 0
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range tokenize.Set(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
