package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/santistebanc/partytime-sub000/internal/room"
)

// Router validates inbound frames and dispatches them to the room authority.
// Anything that fails schema validation is logged and dropped; the connection
// stays open and room state is untouched. Expected races (a losing buzz, a
// stale submit) are swallowed silently; errors the sender needs feedback on
// become a unicast error frame.
type Router struct {
	rooms *room.Manager
	hub   *Hub
	log   *slog.Logger
}

func NewRouter(rooms *room.Manager, hub *Hub, log *slog.Logger) *Router {
	return &Router{rooms: rooms, hub: hub, log: log}
}

// Dispatch handles one inbound text frame from a connection.
func (r *Router) Dispatch(ctx context.Context, conn *Conn, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.log.Warn("malformed frame dropped", "room", conn.RoomID, "conn", conn.ID, "error", err)
		return
	}

	auth, err := r.rooms.GetOrCreate(ctx, conn.RoomID)
	if err != nil {
		r.log.Error("room unavailable", "room", conn.RoomID, "error", err)
		return
	}

	if msg.Type == MsgJoin {
		r.handleJoin(ctx, auth, conn, msg.Payload)
		return
	}

	// Every other verb requires an established identity.
	if conn.UserID == "" {
		r.log.Warn("frame before join dropped", "room", conn.RoomID, "conn", conn.ID, "type", msg.Type)
		return
	}

	switch msg.Type {
	case MsgChangeName:
		var p changeNamePayload
		if !r.decode(conn, msg, &p) || strings.TrimSpace(p.Name) == "" {
			return
		}
		err = auth.HandleChangeName(ctx, conn.UserID, p.Name)

	case MsgUpdateUserToggles:
		var p togglesPayload
		if !r.decode(conn, msg, &p) {
			return
		}
		if p.UserID == "" {
			p.UserID = conn.UserID
		}
		err = auth.HandleUpdateUserToggles(ctx, conn.UserID, p.UserID, p.Toggles)

	case MsgAddQuestion:
		var p questionPayload
		if !r.decode(conn, msg, &p) {
			return
		}
		err = auth.HandleAddQuestion(ctx, conn.UserID, p.Question)

	case MsgUpdateQuestion:
		var p questionPayload
		if !r.decode(conn, msg, &p) || p.Question.ID == "" {
			return
		}
		err = auth.HandleUpdateQuestion(ctx, conn.UserID, p.Question)

	case MsgDeleteQuestion:
		var p deleteQuestionPayload
		if !r.decode(conn, msg, &p) || p.QuestionID == "" {
			return
		}
		err = auth.HandleDeleteQuestion(ctx, conn.UserID, p.QuestionID)

	case MsgReorderQuestions:
		var p reorderPayload
		if !r.decode(conn, msg, &p) {
			return
		}
		err = auth.HandleReorderQuestions(ctx, conn.UserID, p.Order)

	case MsgUpdateRevealState:
		var p revealPayload
		if !r.decode(conn, msg, &p) || p.QuestionID == "" {
			return
		}
		err = auth.HandleUpdateRevealState(ctx, conn.UserID, p.QuestionID, p.Revealed)

	case MsgAddTopic:
		var p topicPayload
		if !r.decode(conn, msg, &p) || strings.TrimSpace(p.Name) == "" {
			return
		}
		err = auth.HandleAddTopic(ctx, conn.UserID, p.Name)

	case MsgRemoveTopic:
		var p topicPayload
		if !r.decode(conn, msg, &p) || strings.TrimSpace(p.Name) == "" {
			return
		}
		err = auth.HandleRemoveTopic(ctx, conn.UserID, p.Name)

	case MsgStartRound:
		err = auth.HandleStartRound(ctx, conn.UserID)

	case MsgBuzzIn:
		err = auth.HandleBuzz(ctx, conn.UserID)

	case MsgSubmitAnswer:
		var p answerPayload
		if !r.decode(conn, msg, &p) {
			return
		}
		err = auth.HandleSubmitAnswer(ctx, conn.UserID, p.Answer)

	case MsgNextQuestion:
		err = auth.HandleNextQuestion(ctx, conn.UserID)

	case MsgResetRound:
		err = auth.HandleReset(ctx, conn.UserID)

	default:
		r.log.Warn("unknown frame type dropped", "room", conn.RoomID, "conn", conn.ID, "type", msg.Type)
		return
	}

	r.resolve(conn, msg.Type, err)
}

// HandleClose unbinds a closed connection from its room.
func (r *Router) HandleClose(ctx context.Context, conn *Conn) {
	auth, ok := r.rooms.Get(conn.RoomID)
	if !ok {
		return
	}
	if err := auth.HandleDisconnect(ctx, conn.ID); err != nil && !errors.Is(err, room.ErrRoomClosed) {
		r.log.Warn("disconnect cleanup failed", "room", conn.RoomID, "conn", conn.ID, "error", err)
	}
}

func (r *Router) handleJoin(ctx context.Context, auth *room.Authority, conn *Conn, payload json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.UserID) == "" {
		r.log.Warn("malformed join dropped", "room", conn.RoomID, "conn", conn.ID)
		return
	}
	if err := auth.HandleJoin(ctx, conn.ID, p.UserID, p.Name); err != nil {
		r.resolve(conn, MsgJoin, err)
		return
	}
	conn.UserID = p.UserID
}

func (r *Router) decode(conn *Conn, msg Message, out any) bool {
	if len(msg.Payload) == 0 {
		r.log.Warn("frame missing payload dropped", "room", conn.RoomID, "conn", conn.ID, "type", msg.Type)
		return false
	}
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		r.log.Warn("malformed payload dropped", "room", conn.RoomID, "conn", conn.ID, "type", msg.Type, "error", err)
		return false
	}
	return true
}

func (r *Router) resolve(conn *Conn, op MessageType, err error) {
	if err == nil {
		return
	}
	if room.Silent(err) {
		r.log.Debug("expected race rejected", "room", conn.RoomID, "conn", conn.ID, "op", op, "error", err)
		return
	}
	r.log.Warn("operation failed", "room", conn.RoomID, "conn", conn.ID, "op", op, "error", err)
	r.hub.ToConn(conn.RoomID, conn.ID, string(MsgError), errorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, room.ErrQuestionNotFound):
		return "QUESTION_NOT_FOUND"
	case errors.Is(err, room.ErrNoQuestions):
		return "NO_QUESTIONS"
	case errors.Is(err, room.ErrInvalidRoundState):
		return "INVALID_ROUND_STATE"
	case errors.Is(err, room.ErrNotAllowed):
		return "NOT_ALLOWED"
	case errors.Is(err, room.ErrInvalidQuestion):
		return "INVALID_QUESTION"
	default:
		return "INTERNAL"
	}
}
