// Package game implements the rules of Plunder, a two-player trading game
// for pirates: the deck, market and token lifecycle, action legality and
// resolution, round and match termination, and scoring.
//
// A Game owns exactly one State and is its only writer. Every action is
// atomic: it either resolves completely or returns an error wrapping
// ErrIllegalAction and leaves the state as it was. Events are published on
// the game's EventBus after the state change they describe is complete, so
// subscribers may snapshot the state from inside OnEvent.
//
// AI seats are not played automatically. Callers check IsAITurn and invoke
// RunAITurn when they are ready, which keeps pacing out of the rules engine.
package game
