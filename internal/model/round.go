package model

import "time"

// Phase is the round state machine state.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAwaitingBuzz Phase = "awaitingBuzz"
	PhaseResponding   Phase = "responding"
	PhaseResolved     Phase = "resolved"
	PhaseFinished     Phase = "finished"
)

// RoundState is the live view of the quiz round. ActiveResponder is non-empty
// only while the phase is Responding.
type RoundState struct {
	Phase                Phase  `json:"phase"`
	CurrentQuestionIndex int    `json:"currentQuestionIndex"`
	ActiveResponder      string `json:"activeResponder,omitempty"`
}

// HistoryEntry is one resolved buzz, written exactly once per resolution.
// The history list is the authoritative scoring ledger: a user's score always
// equals the sum of PointsDelta across their entries.
type HistoryEntry struct {
	QuestionID      string    `json:"questionId" bson:"questionId"`
	RespondingUser  string    `json:"respondingUser" bson:"respondingUser"`
	SubmittedAnswer string    `json:"submittedAnswer" bson:"submittedAnswer"`
	CorrectAnswer   string    `json:"correctAnswer" bson:"correctAnswer"`
	IsCorrect       bool      `json:"isCorrect" bson:"isCorrect"`
	PointsDelta     int       `json:"pointsDelta" bson:"pointsDelta"`
	ResolvedAt      time.Time `json:"resolvedAt" bson:"resolvedAt"`
}
