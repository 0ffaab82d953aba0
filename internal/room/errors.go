package room

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoQuestions        = errors.New("no questions in the deck")
	ErrAlreadyBuzzed      = errors.New("another responder already holds the buzz")
	ErrNotActiveResponder = errors.New("sender is not the active responder")
	ErrNotAPlayer         = errors.New("sender does not have the player flag")
	ErrInvalidRoundState  = errors.New("operation not valid in the current round state")
	ErrNotAllowed         = errors.New("sender is not allowed to perform this operation")
	ErrInvalidQuestion    = errors.New("invalid question payload")
)

// Silent reports whether err is an expected race under concurrent clients
// that must not be surfaced as a failure to the room.
func Silent(err error) bool {
	return errors.Is(err, ErrAlreadyBuzzed) ||
		errors.Is(err, ErrNotActiveResponder) ||
		errors.Is(err, ErrNotAPlayer)
}
