package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qballcreative/plunder/internal/game"
)

// CommandKind identifies what the player typed.
type CommandKind string

const (
	CmdAction    CommandKind = "action"
	CmdNextRound CommandKind = "next"
	CmdChat      CommandKind = "chat"
	CmdReady     CommandKind = "ready"
	CmdHelp      CommandKind = "help"
	CmdQuit      CommandKind = "quit"
)

var (
	ErrEmptyCommand   = errors.New("type a command, or help")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("bad argument")
)

// Command is a parsed line of input.
type Command struct {
	Kind   CommandKind
	Action game.Action
	Text   string
}

// HelpText lists the commands understood by ParseCommand.
const HelpText = `take N             take market card N
ships              take every ship in the market
sell N [N...]      sell hand cards by position
sell GOODS         sell every card of one goods type
swap A B for X Y   give hand cards (or sN for ships), take market cards
raid N             steal the opponent's Nth hidden card
next               start the next round
chat TEXT          talk to your opponent
ready              tell the host you are ready
quit               leave the game`

// ParseCommand turns input into a Command. Card positions are 1-based and
// refer to the local player, who is always Players[0] in state.
func ParseCommand(input string, state game.State) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	me := state.Players[0]

	switch verb {
	case "take", "t":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: take needs one market position", ErrBadArgument)
		}
		i, err := parsePosition(args[0], len(state.Market), "market")
		if err != nil {
			return Command{}, err
		}
		return action(game.TakeAction(state.Market[i].ID)), nil

	case "ships":
		return action(game.TakeShipsAction()), nil

	case "sell", "s":
		ids, err := sellIDs(args, me.Hand)
		if err != nil {
			return Command{}, err
		}
		return action(game.SellAction(ids)), nil

	case "swap", "exchange", "x":
		give, take, err := exchangeIDs(args, me, state.Market)
		if err != nil {
			return Command{}, err
		}
		return action(game.ExchangeAction(give, take)), nil

	case "raid", "r":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: raid needs one card position", ErrBadArgument)
		}
		opp := state.Players[1]
		i, err := parsePosition(args[0], len(opp.Hand), "opponent hand")
		if err != nil {
			return Command{}, err
		}
		return action(game.RaidAction(opp.Hand[i].ID)), nil

	case "next", "n":
		return Command{Kind: CmdNextRound}, nil

	case "chat", "say":
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
		if text == "" {
			return Command{}, fmt.Errorf("%w: nothing to say", ErrBadArgument)
		}
		return Command{Kind: CmdChat, Text: text}, nil

	case "ready":
		return Command{Kind: CmdReady}, nil

	case "help", "?":
		return Command{Kind: CmdHelp}, nil

	case "quit", "exit", "q":
		return Command{Kind: CmdQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

func action(a game.Action) Command {
	return Command{Kind: CmdAction, Action: a}
}

func parsePosition(tok string, n int, where string) (int, error) {
	pos, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a position", ErrBadArgument, tok)
	}
	if pos < 1 || pos > n {
		return 0, fmt.Errorf("%w: %s has no card %d", ErrBadArgument, where, pos)
	}
	return pos - 1, nil
}

func sellIDs(args []string, hand []game.Card) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: sell needs card positions or a goods type", ErrBadArgument)
	}

	if len(args) == 1 {
		if t, ok := parseGoods(args[0]); ok {
			var ids []string
			for _, c := range hand {
				if c.Type == t {
					ids = append(ids, c.ID)
				}
			}
			if len(ids) == 0 {
				return nil, fmt.Errorf("%w: no %s in hand", ErrBadArgument, t)
			}
			return ids, nil
		}
	}

	ids := make([]string, 0, len(args))
	for _, tok := range args {
		i, err := parsePosition(tok, len(hand), "hand")
		if err != nil {
			return nil, err
		}
		ids = append(ids, hand[i].ID)
	}
	return ids, nil
}

func parseGoods(tok string) (game.CardType, bool) {
	tok = strings.ToLower(tok)
	for _, t := range game.GoodsTypes {
		name := strings.ToLower(string(t))
		if tok == name || tok+"s" == name || tok == name+"s" {
			return t, true
		}
	}
	return "", false
}

// exchangeIDs parses "A B for X Y". Hand positions are plain numbers and
// ship positions carry an s prefix.
func exchangeIDs(args []string, me game.Player, market []game.Card) ([]string, []string, error) {
	split := -1
	for i, tok := range args {
		if strings.EqualFold(tok, "for") {
			split = i
			break
		}
	}
	if split <= 0 || split == len(args)-1 {
		return nil, nil, fmt.Errorf("%w: use swap A B for X Y", ErrBadArgument)
	}

	give := make([]string, 0, split)
	for _, tok := range args[:split] {
		if rest, ok := strings.CutPrefix(strings.ToLower(tok), "s"); ok {
			i, err := parsePosition(rest, len(me.Ships), "ship zone")
			if err != nil {
				return nil, nil, err
			}
			give = append(give, me.Ships[i].ID)
			continue
		}
		i, err := parsePosition(tok, len(me.Hand), "hand")
		if err != nil {
			return nil, nil, err
		}
		give = append(give, me.Hand[i].ID)
	}

	take := make([]string, 0, len(args)-split-1)
	for _, tok := range args[split+1:] {
		i, err := parsePosition(tok, len(market), "market")
		if err != nil {
			return nil, nil, err
		}
		take = append(take, market[i].ID)
	}
	return give, take, nil
}
