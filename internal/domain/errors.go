package domain

import "errors"

var (
	// ErrValidation is the base for malformed or missing input; specific
	// failures wrap it with a human-readable detail.
	ErrValidation = errors.New("invalid input")
	// ErrDeckNotFound indicates no deck exists for the instance.
	ErrDeckNotFound = errors.New("game deck not found")
	// ErrQuestionNotFound indicates the session points at a question the deck
	// does not contain.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoActiveSession is returned when a play operation references a
	// session that does not exist.
	ErrNoActiveSession = errors.New("no active game session found")
	// ErrGameFinished is returned when a play operation hits a session that
	// already reached its terminal state.
	ErrGameFinished = errors.New("game already finished")
)
