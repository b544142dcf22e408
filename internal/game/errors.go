package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is wrapped by every rejection. A rejected action leaves
// the game state untouched.
var ErrIllegalAction = errors.New("illegal action")

var (
	ErrNotPlaying       = fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	ErrNotRoundEnd      = fmt.Errorf("%w: round has not ended", ErrIllegalAction)
	ErrNotYourTurn      = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrNotAITurn        = fmt.Errorf("%w: not an AI turn", ErrIllegalAction)
	ErrNoAgent          = errors.New("no AI agent registered")
	ErrCardNotFound     = fmt.Errorf("%w: card not found", ErrIllegalAction)
	ErrDuplicateCard    = fmt.Errorf("%w: card selected twice", ErrIllegalAction)
	ErrHandFull         = fmt.Errorf("%w: hand limit reached", ErrIllegalAction)
	ErrNoShips          = fmt.Errorf("%w: no ships in market", ErrIllegalAction)
	ErrExchangeMismatch = fmt.Errorf("%w: exchange must swap equal numbers of cards", ErrIllegalAction)
	ErrExchangeTooSmall = fmt.Errorf("%w: exchange needs at least 2 cards", ErrIllegalAction)
	ErrNothingToSell    = fmt.Errorf("%w: no cards selected", ErrIllegalAction)
	ErrMixedGoods       = fmt.Errorf("%w: sold cards must share one goods type", ErrIllegalAction)
	ErrSellMinimum      = fmt.Errorf("%w: too few cards for this goods type", ErrIllegalAction)
	ErrRuleDisabled     = fmt.Errorf("%w: optional rule not enabled", ErrIllegalAction)
	ErrRaidUsed         = fmt.Errorf("%w: pirate raid already used this round", ErrIllegalAction)
	ErrUnknownAction    = fmt.Errorf("%w: unknown action", ErrIllegalAction)
)
