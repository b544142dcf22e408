package tui

import (
	"fmt"
	"strings"

	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
)

func formatCard(c game.Card) string {
	return cardStyle(c.Type).Render(string(c.Type))
}

// formatCards numbers cards from 1, with an optional prefix such as "s"
// for ships.
func formatCards(cards []game.Card, prefix string) string {
	if len(cards) == 0 {
		return InfoStyle.Render("(none)")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%s%d:%s", prefix, i+1, formatCard(c))
	}
	return strings.Join(parts, " ")
}

func renderHeader(state game.State, status *netplay.Status) string {
	me, opp := state.Players[0], state.Players[1]
	title := fmt.Sprintf("PLUNDER  Round %d/%d  %s %d - %d %s",
		state.Round, state.MaxRounds, me.Name, state.RoundWins[0], state.RoundWins[1], opp.Name)
	header := HeaderStyle.Render(title)
	if status != nil {
		header += " " + renderStatus(*status)
	}
	return header
}

func renderStatus(st netplay.Status) string {
	text := string(st.State)
	if st.Code != "" {
		text = fmt.Sprintf("%s %s", st.Code, text)
	}
	if st.HasLatency {
		text += fmt.Sprintf(" %dms", st.Latency.Milliseconds())
	}
	text += " (" + string(st.Quality) + ")"
	style, ok := qualityStyles[st.Quality]
	if !ok {
		style = InfoStyle
	}
	return style.Render(text)
}

func renderTokens(state game.State) string {
	parts := make([]string, 0, len(game.GoodsTypes))
	for _, t := range game.GoodsTypes {
		stack := state.TokenStacks[t]
		top := "-"
		if len(stack) > 0 {
			top = fmt.Sprint(stack[0].Value)
		}
		parts = append(parts, fmt.Sprintf("%s %s(%d)", cardStyle(t).Render(string(t)), top, len(stack)))
	}
	b := state.BonusTokens
	return strings.Join(parts, "  ") +
		fmt.Sprintf("\nBonus 3/4/5: %d/%d/%d  Deck: %d", len(b.Three), len(b.Four), len(b.Five), len(state.Deck))
}

func renderBoard(state game.State) string {
	if state.Phase == game.PhaseLobby {
		return InfoStyle.Render("Waiting for the game to start...")
	}
	me, opp := state.Players[0], state.Players[1]

	var b strings.Builder
	b.WriteString(SectionStyle.Render("Market") + "  " + formatCards(state.Market, "") + "\n")
	b.WriteString(SectionStyle.Render("Tokens") + "  " + renderTokens(state) + "\n\n")

	fmt.Fprintf(&b, "%s  %s\n", SectionStyle.Render("Hand"), formatCards(me.Hand, ""))
	fmt.Fprintf(&b, "%s  %s\n", SectionStyle.Render("Ships"), formatCards(me.Ships, "s"))
	fmt.Fprintf(&b, "%s  %d tokens, %d bonus, %d points so far\n",
		SectionStyle.Render("Score"), len(me.Tokens), len(me.BonusTokens), tokenPoints(me))
	if state.OptionalRules.PirateRaid && !me.HasUsedPirateRaid {
		b.WriteString(WarningStyle.Render("Pirate raid available") + "\n")
	}

	fmt.Fprintf(&b, "\n%s  %d cards, %d ships, %d tokens\n",
		SectionStyle.Render(opp.Name), len(opp.Hand), len(opp.Ships), len(opp.Tokens)+len(opp.BonusTokens))

	if state.LastAction != nil {
		b.WriteString(InfoStyle.Render("Last: "+state.LastAction.String()) + "\n")
	}

	switch state.Phase {
	case game.PhasePlaying:
		if state.CurrentPlayerIndex == 0 {
			b.WriteString(ActionsStyle.Render("Your turn"))
		} else {
			b.WriteString(InfoStyle.Render(opp.Name + " is thinking..."))
		}
	case game.PhaseRoundEnd:
		b.WriteString(renderRoundEnd(state))
		b.WriteString("\n" + ActionsStyle.Render("Type next to continue"))
	case game.PhaseGameEnd:
		b.WriteString(renderGameEnd(state))
	}
	return b.String()
}

// tokenPoints is the visible part of a score: tokens and bonuses, without
// the ship bonus that is only settled at round end.
func tokenPoints(p game.Player) int {
	total := 0
	for _, t := range p.Tokens {
		total += t.Value
	}
	for _, t := range p.BonusTokens {
		total += t.Value
	}
	return total
}

func renderRoundEnd(state game.State) string {
	me, opp := state.Players[0], state.Players[1]
	line := fmt.Sprintf("Round over: %s %d, %s %d. ", me.Name, game.Score(me), opp.Name, game.Score(opp))
	switch game.RoundWinnerIndex(state.Players) {
	case 0:
		return SuccessStyle.Render(line + "You win the round!")
	case 1:
		return ErrorStyle.Render(line + opp.Name + " wins the round.")
	}
	return WarningStyle.Render(line + "The round is drawn.")
}

func renderGameEnd(state game.State) string {
	switch game.GameWinnerIndex(state.RoundWins) {
	case 0:
		return SuccessStyle.Render("You win the match!")
	case 1:
		return ErrorStyle.Render(state.Players[1].Name + " wins the match.")
	}
	return WarningStyle.Render("The match is tied.")
}
