package room

import "github.com/santistebanc/partytime-sub000/internal/model"

// Outbound event names, mirrored by the ws router's frame types.
const (
	EventJoined          = "joined"
	EventUsers           = "users"
	EventNameChanged     = "nameChanged"
	EventQuestions       = "questions"
	EventRevealState     = "revealStateUpdated"
	EventTopics          = "topics"
	EventRoundStarted    = "roundStarted"
	EventBuzzerActivated = "buzzerActivated"
	EventAnswerSubmitted = "answerSubmitted"
	EventNextQuestion    = "nextQuestion"
	EventGameFinished    = "gameFinished"
	EventRoundReset      = "roundReset"
)

// JoinedView is the unicast reply to a successful join: the sender's own
// record plus the full room state, so a reconnecting client needs nothing else.
type JoinedView struct {
	Self      *model.User          `json:"self"`
	Users     []*model.User        `json:"users"`
	Questions []*model.Question    `json:"questions"`
	Topics    []string             `json:"topics"`
	Round     model.RoundState     `json:"round"`
	History   []model.HistoryEntry `json:"history"`
}

type UsersView struct {
	Users []*model.User `json:"users"`
}

type NameChangedView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type QuestionsView struct {
	Questions []*model.Question `json:"questions"`
}

type RevealStateView struct {
	QuestionID string `json:"questionId"`
	Revealed   bool   `json:"revealed"`
}

type TopicsView struct {
	Topics []string `json:"topics"`
}

type RoundView struct {
	Round model.RoundState `json:"round"`
}

type BuzzerView struct {
	UserID string           `json:"userId"`
	Round  model.RoundState `json:"round"`
}

type AnswerView struct {
	Entry model.HistoryEntry `json:"entry"`
	Users []*model.User      `json:"users"`
	Round model.RoundState   `json:"round"`
}

type FinishedView struct {
	Round   model.RoundState     `json:"round"`
	Users   []*model.User        `json:"users"`
	History []model.HistoryEntry `json:"history"`
}

type ResetView struct {
	Round model.RoundState `json:"round"`
	Users []*model.User    `json:"users"`
}
