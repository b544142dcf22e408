package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/ai"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
	"github.com/qballcreative/plunder/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func localTable(t *testing.T, seed int64, rules game.OptionalRules) *LocalTable {
	t.Helper()
	src := randutil.New(seed)
	g := game.New(game.WithSource(src), game.WithAgent(ai.NewEngine(randutil.New(seed+1))))
	return NewLocalTable(g, "Anne", game.Medium, rules)
}

func logContains(m *Model, substr string) bool {
	for _, line := range m.Log() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestModelLogsRoundStart(t *testing.T) {
	m := New(localTable(t, 1, game.OptionalRules{}), testLogger())
	assert.True(t, logContains(m, "Round 1 begins"))
}

func TestSubmitPlaysAction(t *testing.T) {
	table := localTable(t, 1, game.OptionalRules{})
	m := New(table, testLogger())

	cmd := m.Submit("ships")
	state := table.GameState()
	if len(state.Players[0].Ships) == 0 {
		// No ships were on offer, so the move was rejected and logged.
		assert.Nil(t, cmd)
		assert.True(t, logContains(m, game.ErrNoShips.Error()))
		cmd = m.Submit("take 1")
		state = table.GameState()
	}

	assert.Equal(t, 1, state.TurnCount)
	assert.True(t, logContains(m, "Anne "))
	assert.NotNil(t, cmd, "the AI's reply is scheduled")
	assert.True(t, m.aiPending)
}

func TestAITurnMessage(t *testing.T) {
	table := localTable(t, 3, game.OptionalRules{})
	m := New(table, testLogger())
	m.Submit("take 1")
	require.Equal(t, 1, table.GameState().CurrentPlayerIndex)

	_, _ = m.Update(aiTurnMsg{})
	state := table.GameState()
	assert.Equal(t, 2, state.TurnCount)
	assert.Equal(t, 0, state.CurrentPlayerIndex)
	assert.False(t, m.aiPending)
	assert.True(t, logContains(m, state.Players[1].Name))
}

func TestSubmitErrors(t *testing.T) {
	m := New(localTable(t, 1, game.OptionalRules{}), testLogger())

	assert.Nil(t, m.Submit("take 9"))
	assert.True(t, logContains(m, "market has no card 9"))

	assert.Nil(t, m.Submit("raid 1"))
	assert.True(t, logContains(m, game.ErrRuleDisabled.Error()))

	assert.Nil(t, m.Submit("chat ahoy"))
	assert.True(t, logContains(m, errNoChat.Error()))

	assert.Nil(t, m.Submit("next"))
	assert.True(t, logContains(m, game.ErrNotRoundEnd.Error()))
}

func TestSubmitHelpAndQuit(t *testing.T) {
	m := New(localTable(t, 1, game.OptionalRules{}), testLogger())

	assert.Nil(t, m.Submit("help"))
	assert.True(t, logContains(m, "swap A B for X Y"))

	cmd := m.Submit("quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestEnterKeySubmits(t *testing.T) {
	table := localTable(t, 1, game.OptionalRules{})
	m := New(table, testLogger())

	m.input.SetValue("take 1")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, table.GameState().TurnCount)
	assert.Empty(t, m.input.Value())
}

func TestLocalGamePlaysToTheEnd(t *testing.T) {
	table := localTable(t, 11, game.OptionalRules{StormRule: true, TreasureChest: true})
	m := New(table, testLogger())
	player := ai.NewEngine(randutil.New(99))

	for steps := 0; table.GameState().Phase != game.PhaseGameEnd; steps++ {
		require.Less(t, steps, 2000)
		state := table.GameState()
		switch {
		case state.Phase == game.PhaseRoundEnd:
			m.Submit("next")
		case table.IsAITurn():
			_, _ = m.Update(aiTurnMsg{})
		default:
			a, ok := player.MakeDecision(state)
			require.True(t, ok)
			require.NoError(t, table.Act(a))
			m.sync()
		}
	}

	assert.True(t, logContains(m, "Round over"))
	assert.True(t, logContains(m, "Treasure chests:"))
	assert.True(t, logContains(m, "match"))
	assert.True(t, logContains(m, "rematch"))

	m.Submit("next")
	state := table.GameState()
	assert.Equal(t, game.PhasePlaying, state.Phase)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, [2]int{0, 0}, state.RoundWins)
}

func TestView(t *testing.T) {
	m := New(localTable(t, 1, game.OptionalRules{PirateRaid: true}), testLogger())
	assert.Equal(t, "Loading...", m.View())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	view := m.View()
	assert.Contains(t, view, "PLUNDER")
	assert.Contains(t, view, "Market")
	assert.Contains(t, view, "Hand")
	assert.Contains(t, view, "Pirate raid available")
	assert.Contains(t, view, "Your turn")
}

// fakeSession stands in for a network session.
type fakeSession struct {
	*LocalTable
	chat    []netplay.ChatLine
	ready   bool
	changed chan struct{}
}

func (f *fakeSession) SendChat(text string) error {
	f.chat = append(f.chat, netplay.ChatLine{From: "Anne", Text: text})
	return nil
}

func (f *fakeSession) Chat() []netplay.ChatLine { return f.chat }

func (f *fakeSession) SetReady() error {
	f.ready = true
	return nil
}

func (f *fakeSession) Changed() <-chan struct{} { return f.changed }

func (f *fakeSession) Status() netplay.Status {
	return netplay.Status{State: netplay.StateConnected, Code: "PLUNDER2", Quality: netplay.QualityGood, HasLatency: true}
}

func TestNetworkTableFeatures(t *testing.T) {
	f := &fakeSession{LocalTable: localTable(t, 1, game.OptionalRules{}), changed: make(chan struct{}, 1)}
	m := New(f, testLogger())

	assert.Nil(t, m.Submit("chat Ahoy"))
	assert.True(t, logContains(m, "Anne: Ahoy"))

	assert.Nil(t, m.Submit("ready"))
	assert.True(t, f.ready)

	f.chat = append(f.chat, netplay.ChatLine{From: "Jack", Text: "Arr"})
	f.changed <- struct{}{}
	msg := m.waitForChange()()
	_, _ = m.Update(msg)
	assert.True(t, logContains(m, "Jack: Arr"))

	_, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Contains(t, m.View(), "PLUNDER2 connected")
}

// lobbyTable is a network table waiting for the match to start.
type lobbyTable struct {
	role netplay.Role
}

func (l lobbyTable) GameState() game.State  { return game.State{Phase: game.PhaseLobby} }
func (l lobbyTable) Act(game.Action) error  { return netplay.ErrNotConnected }
func (l lobbyTable) NextRound() error       { return netplay.ErrNotConnected }
func (l lobbyTable) Status() netplay.Status { return netplay.Status{State: netplay.StateConnected, Role: l.role} }

func TestLobbyHints(t *testing.T) {
	m := New(lobbyTable{role: netplay.RoleGuest}, testLogger())
	assert.True(t, logContains(m, "Type ready"))

	m = New(lobbyTable{role: netplay.RoleHost}, testLogger())
	assert.True(t, logContains(m, "Waiting for your opponent"))
}
