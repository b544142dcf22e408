package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
)

// aiDelay paces the AI opponent so its moves can be followed.
const aiDelay = 700 * time.Millisecond

var (
	errNoChat  = errors.New("chat is only available in network games")
	errNoReady = errors.New("ready is only available when joining a game")
)

type changedMsg struct{}

type aiTurnMsg struct{}

type turnKey struct {
	round int
	turn  int
}

// Model is the Bubble Tea model for a game of plunder.
type Model struct {
	table  Table
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog   []string
	seenTurn  turnKey
	seenPhase game.Phase
	seenChat  int
	aiPending bool
	quitting  bool

	// Dimensions
	width       int
	height      int
	initialized bool
}

// New creates a model playing at table.
func New(table Table, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "take 1, ships, sell gold, swap 1 2 for 3 4, help"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		seenPhase:   game.PhaseLobby,
	}
	m.sync()
	if st := m.status(); st != nil && table.GameState().Phase == game.PhaseLobby {
		switch st.Role {
		case netplay.RoleGuest:
			m.addLog(InfoStyle.Render("Type ready when you want to set sail."))
		case netplay.RoleHost:
			m.addLog(InfoStyle.Render("Waiting for your opponent to get ready."))
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange(), m.scheduleAI())
}

// waitForChange delivers a changedMsg the next time a Notifier table
// changes.
func (m *Model) waitForChange() tea.Cmd {
	n, ok := m.table.(Notifier)
	if !ok {
		return nil
	}
	ch := n.Changed()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

// scheduleAI queues the AI's move if it is on turn.
func (m *Model) scheduleAI() tea.Cmd {
	driver, ok := m.table.(AIDriver)
	if !ok || m.aiPending || !driver.IsAITurn() {
		return nil
	}
	m.aiPending = true
	return tea.Tick(aiDelay, func(time.Time) tea.Msg { return aiTurnMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case changedMsg:
		m.sync()
		cmds = append(cmds, m.waitForChange())

	case aiTurnMsg:
		m.aiPending = false
		if driver, ok := m.table.(AIDriver); ok {
			if err := driver.RunAITurn(); err != nil {
				m.logger.Error("AI turn failed", "error", err)
				m.addLog(ErrorStyle.Render(err.Error()))
			}
		}
		m.sync()
		cmds = append(cmds, m.scheduleAI())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			cmd := m.Submit(m.input.Value())
			m.input.SetValue("")
			if m.quitting {
				return m, cmd
			}
			cmds = append(cmds, cmd)
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit runs one line of player input and returns any follow-up command.
func (m *Model) Submit(input string) tea.Cmd {
	input = strings.TrimSpace(input)
	cmd, err := ParseCommand(input, m.table.GameState())
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}
	m.logger.Debug("Command", "kind", cmd.Kind, "input", input)

	switch cmd.Kind {
	case CmdQuit:
		m.quitting = true
		return tea.Quit
	case CmdHelp:
		for _, line := range strings.Split(HelpText, "\n") {
			m.addLog(InfoStyle.Render(line))
		}
		return nil
	case CmdAction:
		err = m.table.Act(cmd.Action)
	case CmdNextRound:
		err = m.table.NextRound()
	case CmdChat:
		if c, ok := m.table.(Chatter); ok {
			err = c.SendChat(cmd.Text)
		} else {
			err = errNoChat
		}
	case CmdReady:
		if r, ok := m.table.(Readier); ok {
			err = r.SetReady()
		} else {
			err = errNoReady
		}
	}
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return nil
	}
	m.sync()
	return m.scheduleAI()
}

// sync appends log lines for whatever changed since the last call.
func (m *Model) sync() {
	state := m.table.GameState()

	key := turnKey{round: state.Round, turn: state.TurnCount}
	if key != m.seenTurn && state.Phase != game.PhaseLobby {
		switch {
		case state.TurnCount == 0:
			m.addLog(SectionStyle.Render(fmt.Sprintf("Round %d begins", state.Round)))
		case state.LastAction != nil:
			m.addLog(state.LastAction.String())
		}
		m.seenTurn = key
	}

	if state.Phase != m.seenPhase {
		switch state.Phase {
		case game.PhaseRoundEnd:
			m.addLog(renderRoundEnd(state))
			if state.OptionalRules.TreasureChest {
				m.addLog(InfoStyle.Render(renderTreasures(state)))
			}
		case game.PhaseGameEnd:
			m.addLog(renderGameEnd(state))
			if m.canRematch() {
				m.addLog(InfoStyle.Render("Type next for a rematch or quit to leave."))
			}
		}
		m.seenPhase = state.Phase
	}

	if c, ok := m.table.(Chatter); ok {
		lines := c.Chat()
		if len(lines) < m.seenChat {
			m.seenChat = 0
		}
		for _, l := range lines[m.seenChat:] {
			m.addLog(ChatStyle.Render(l.From + ": " + l.Text))
		}
		m.seenChat = len(lines)
	}
}

// canRematch reports whether next starts a new match at this table: the
// AI table always can, a network table only on the host.
func (m *Model) canRematch() bool {
	if _, local := m.table.(AIDriver); local {
		return true
	}
	st := m.status()
	return st != nil && st.Role == netplay.RoleHost
}

func renderTreasures(state game.State) string {
	parts := make([]string, 0, len(state.HiddenTreasures))
	for _, ht := range state.HiddenTreasures {
		name := ht.PlayerID
		for _, p := range state.Players {
			if p.ID == ht.PlayerID {
				name = p.Name
			}
		}
		value := 0
		for _, t := range ht.Tokens {
			value += t.Value
		}
		parts = append(parts, fmt.Sprintf("%s +%d", name, value))
	}
	return "Treasure chests: " + strings.Join(parts, ", ")
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log.
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

func (m *Model) status() *netplay.Status {
	r, ok := m.table.(StatusReporter)
	if !ok {
		return nil
	}
	st := r.Status()
	return &st
}

// Run plays at table until the player quits or ctx is done.
func Run(ctx context.Context, table Table, logger *log.Logger) error {
	p := tea.NewProgram(New(table, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	state := m.table.GameState()
	header := renderHeader(state, m.status())

	actionContent := m.input.View() + "\n" + InfoStyle.Render("Enter to submit • PgUp/PgDn scroll log • Ctrl+C to quit")
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(1, m.width-2)).
		Render(actionContent)

	paneHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(actionPane)-2)
	boardWidth := max(1, m.width*3/5-2)
	logWidth := max(1, m.width-boardWidth-4)

	boardPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#8B4513")).
		Width(boardWidth).
		Height(paneHeight).
		Render(renderBoard(state))

	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, boardPane, logPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, actionPane)
}
