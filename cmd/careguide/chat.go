package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"careguide/internal/agents"
	"careguide/internal/store"
)

var chatReportID int64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Discuss a saved health report interactively",
	Long: `Opens an interactive session for questions about a saved report:
what an activity means, why it was recommended, what to do next.

Uses the most recent report unless --report selects one.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Int64VarP(&chatReportID, "report", "r", 0, "report id to discuss (default: most recent)")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	id := chatReportID
	if id == 0 {
		records, err := db.ListReports(ctx, 1)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no saved reports; run 'careguide assess' first")
		}
		id = records[0].ID
	}

	report, err := db.GetReport(ctx, id)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}

	llm, err := newReasoningClient(ctx)
	if err != nil {
		return err
	}

	m, err := newChatModel(ctx, agents.NewChat(llm), report.PatientSummary, string(reportJSON), id)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var (
	chatUserStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chatBotStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	chatFaintStyle = lipgloss.NewStyle().Faint(true)
)

type chatReplyMsg struct {
	text string
}

type chatModel struct {
	ctx      context.Context
	agent    *agents.Chat
	summary  string
	report   string
	renderer *glamour.TermRenderer

	viewport viewport.Model
	input    textinput.Model
	history  []string
	waiting  bool
	ready    bool
}

func newChatModel(ctx context.Context, agent *agents.Chat, summary, reportJSON string, id int64) (*chatModel, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "Ask about your report..."
	input.Focus()

	return &chatModel{
		ctx:      ctx,
		agent:    agent,
		summary:  summary,
		report:   reportJSON,
		renderer: renderer,
		input:    input,
		history: []string{
			chatFaintStyle.Render(fmt.Sprintf("Discussing report #%d. Type a question, or ctrl+c to quit.", id)),
		},
	}, nil
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		inputHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				break
			}
			m.input.Reset()
			m.waiting = true
			m.history = append(m.history,
				chatUserStyle.Render("You: ")+question,
				chatFaintStyle.Render("thinking..."))
			m.refreshViewport()
			return m, m.ask(question)
		}

	case chatReplyMsg:
		m.waiting = false
		// Drop the thinking placeholder.
		m.history = m.history[:len(m.history)-1]

		rendered, err := m.renderer.Render(msg.text)
		if err != nil {
			rendered = msg.text
		}
		m.history = append(m.history, chatBotStyle.Render("CareGuide:")+"\n"+strings.TrimRight(rendered, "\n"))
		m.refreshViewport()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *chatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		return chatReplyMsg{text: m.agent.Answer(m.ctx, question, m.summary, m.report)}
	}
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *chatModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n\n" + m.input.View()
}
