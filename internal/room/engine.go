package room

import (
	"strings"
	"time"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// Engine is the quiz round state machine: question pointer, the single
// active-responder lock, answer judging, scoring and the append-only ledger.
//
// The lock is intentionally coarse (one responder per room): the domain only
// ever has one live question and one live claim, and correctness comes from
// the room's serialized processing order. A connection drop by the active
// responder does not release the lock; a frozen round is recovered by an
// admin reset or advance.
type Engine struct {
	presence *Presence
	content  *Content

	phase     model.Phase
	index     int
	responder string
	history   []model.HistoryEntry

	now func() time.Time
}

func NewEngine(presence *Presence, content *Content) *Engine {
	return &Engine{
		presence: presence,
		content:  content,
		phase:    model.PhaseIdle,
		now:      time.Now,
	}
}

// Start begins the round at the first question.
func (e *Engine) Start() error {
	if e.phase != model.PhaseIdle {
		return ErrInvalidRoundState
	}
	if e.content.Len() == 0 {
		return ErrNoQuestions
	}
	e.index = 0
	e.phase = model.PhaseAwaitingBuzz
	return nil
}

// Buzz claims the responder lock. The first buzz processed while awaiting
// wins; later ones see ErrAlreadyBuzzed and change nothing.
func (e *Engine) Buzz(userID string) error {
	switch e.phase {
	case model.PhaseAwaitingBuzz:
	case model.PhaseResponding:
		return ErrAlreadyBuzzed
	default:
		return ErrInvalidRoundState
	}
	u, ok := e.presence.Get(userID)
	if !ok {
		return ErrUserNotFound
	}
	if !u.IsPlayer {
		return ErrNotAPlayer
	}
	e.responder = userID
	e.phase = model.PhaseResponding
	return nil
}

// SubmitAnswer judges the active responder's answer, applies the score delta
// and appends the ledger entry, then releases the lock.
func (e *Engine) SubmitAnswer(userID, answer string) (*model.HistoryEntry, error) {
	if e.phase != model.PhaseResponding {
		return nil, ErrInvalidRoundState
	}
	if userID != e.responder {
		return nil, ErrNotActiveResponder
	}
	q, ok := e.content.QuestionAt(e.index)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	correct := answersMatch(answer, q.CorrectAnswer)
	delta := q.PointValue
	if !correct {
		delta = -(q.PointValue / 2)
	}

	entry := model.HistoryEntry{
		QuestionID:      q.ID,
		RespondingUser:  userID,
		SubmittedAnswer: answer,
		CorrectAnswer:   q.CorrectAnswer,
		IsCorrect:       correct,
		PointsDelta:     delta,
		ResolvedAt:      e.now(),
	}

	if err := e.presence.AddScore(userID, delta); err != nil {
		return nil, err
	}
	e.history = append(e.history, entry)
	e.responder = ""
	e.phase = model.PhaseResolved
	return &entry, nil
}

// Advance moves to the next question, or to Finished past the last one.
// Advancing from AwaitingBuzz skips the current question.
func (e *Engine) Advance() error {
	if e.phase != model.PhaseResolved && e.phase != model.PhaseAwaitingBuzz {
		return ErrInvalidRoundState
	}
	if e.index+1 < e.content.Len() {
		e.index++
		e.phase = model.PhaseAwaitingBuzz
		return nil
	}
	e.phase = model.PhaseFinished
	return nil
}

// Reset returns to Idle from any phase, clearing the lock, the question
// pointer, the ledger and every score: the ledger is the source of truth for
// scores, so both are cleared together.
func (e *Engine) Reset() {
	e.phase = model.PhaseIdle
	e.index = 0
	e.responder = ""
	e.history = nil
	e.presence.ResetScores()
}

func (e *Engine) State() model.RoundState {
	return model.RoundState{
		Phase:                e.phase,
		CurrentQuestionIndex: e.index,
		ActiveResponder:      e.responder,
	}
}

func (e *Engine) Phase() model.Phase {
	return e.phase
}

// History returns the ledger in resolution order.
func (e *Engine) History() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

func answersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
