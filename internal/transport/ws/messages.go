package ws

import (
	"encoding/json"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// MessageType is the frame discriminator.
type MessageType string

// Inbound frame types.
const (
	MsgJoin              MessageType = "join"
	MsgChangeName        MessageType = "changeName"
	MsgUpdateUserToggles MessageType = "updateUserToggles"
	MsgAddQuestion       MessageType = "addQuestion"
	MsgUpdateQuestion    MessageType = "updateQuestion"
	MsgDeleteQuestion    MessageType = "deleteQuestion"
	MsgReorderQuestions  MessageType = "reorderQuestions"
	MsgUpdateRevealState MessageType = "updateRevealState"
	MsgAddTopic          MessageType = "addTopic"
	MsgRemoveTopic       MessageType = "removeTopic"
	MsgStartRound        MessageType = "startRound"
	MsgBuzzIn            MessageType = "buzzIn"
	MsgSubmitAnswer      MessageType = "submitAnswer"
	MsgNextQuestion      MessageType = "nextQuestion"
	MsgResetRound        MessageType = "resetRound"
)

// MsgError is the unicast error acknowledgment frame.
const MsgError MessageType = "error"

// Message is the wire envelope: newline-free JSON text frames with a type
// discriminator.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type changeNamePayload struct {
	Name string `json:"name"`
}

type togglesPayload struct {
	UserID  string            `json:"userId"`
	Toggles model.UserToggles `json:"toggles"`
}

type questionPayload struct {
	Question model.Question `json:"question"`
}

type deleteQuestionPayload struct {
	QuestionID string `json:"questionId"`
}

type reorderPayload struct {
	Order []string `json:"order"`
}

type revealPayload struct {
	QuestionID string `json:"questionId"`
	Revealed   bool   `json:"revealed"`
}

type topicPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
