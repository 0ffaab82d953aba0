package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// StateStore is the external key-value collaborator: one persisted blob per
// room, exclusively owned by this room's authority.
type StateStore interface {
	Load(ctx context.Context, roomID string) (*model.RoomSnapshot, error)
	Save(ctx context.Context, roomID string, snap *model.RoomSnapshot) error
}

// HistoryArchive receives resolved ledger entries for durable keeping. The
// in-memory ledger stays authoritative; archive writes are best-effort.
type HistoryArchive interface {
	Insert(ctx context.Context, roomID string, entry model.HistoryEntry) error
}

// Broadcaster delivers outbound events (implemented by the ws hub; declared
// here to avoid an import cycle).
type Broadcaster interface {
	ToRoom(roomID, event string, payload any)
	ToConn(roomID, connID, event string, payload any)
}

// ErrRoomClosed is returned for operations dispatched to a stopped authority.
var ErrRoomClosed = errors.New("room is closed")

// Authority owns one room's stores and is the only component allowed to
// mutate them. Every inbound operation is funneled through a single mailbox
// goroutine, so exactly one mutation is in flight per room at any time.
// Each mutation persists the changed state before any broadcast that
// reflects it.
type Authority struct {
	id       string
	log      *slog.Logger
	registry *Registry
	presence *Presence
	content  *Content
	engine   *Engine
	store    StateStore
	archive  HistoryArchive
	bcast    Broadcaster

	inbox    chan request
	done     chan struct{}
	stopMu   sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

type request struct {
	run  func() error
	resp chan error
}

func NewAuthority(id string, store StateStore, archive HistoryArchive, bcast Broadcaster, log *slog.Logger) *Authority {
	presence := NewPresence()
	content := NewContent()
	return &Authority{
		id:       id,
		log:      log.With("room", id),
		registry: NewRegistry(),
		presence: presence,
		content:  content,
		engine:   NewEngine(presence, content),
		store:    store,
		archive:  archive,
		bcast:    bcast,
		inbox:    make(chan request, 64),
		done:     make(chan struct{}),
	}
}

// Hydrate loads the persisted blob into the stores. Must be called before
// Run; a missing blob means a fresh room.
func (a *Authority) Hydrate(ctx context.Context) error {
	snap, err := a.store.Load(ctx, a.id)
	if err != nil {
		return fmt.Errorf("load room %s: %w", a.id, err)
	}
	if snap == nil {
		return nil
	}
	a.presence.Restore(snap.Users)
	a.content.Restore(snap.Questions, snap.Topics, snap.Reveal)
	return nil
}

// Run processes the mailbox until Stop. One request at a time, arrival order.
func (a *Authority) Run() {
	for {
		select {
		case req := <-a.inbox:
			req.resp <- req.run()
		case <-a.done:
			a.drain()
			return
		}
	}
}

func (a *Authority) Stop() {
	a.stopOnce.Do(func() {
		a.stopMu.Lock()
		a.stopped = true
		close(a.done)
		a.stopMu.Unlock()
		a.drain()
	})
}

// drain answers requests that made it into the mailbox before the stop flag
// was set. Enqueue happens under the read lock, so nothing lands after this.
func (a *Authority) drain() {
	for {
		select {
		case req := <-a.inbox:
			req.resp <- ErrRoomClosed
		default:
			return
		}
	}
}

func (a *Authority) do(ctx context.Context, run func() error) error {
	req := request{run: run, resp: make(chan error, 1)}
	a.stopMu.RLock()
	if a.stopped {
		a.stopMu.RUnlock()
		return ErrRoomClosed
	}
	select {
	case a.inbox <- req:
		a.stopMu.RUnlock()
	case <-ctx.Done():
		a.stopMu.RUnlock()
		return ctx.Err()
	}
	// An enqueued request is always answered, by Run or by the shutdown
	// drain; returning early on done would misreport an applied mutation.
	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleJoin registers the connection, assigns stored flags on first-ever
// join, and replies with the full room view. Rejoining never resets stored
// flags or score.
func (a *Authority) HandleJoin(ctx context.Context, connID, userID, displayName string) error {
	return a.do(ctx, func() error {
		first := a.presence.Empty()
		self := a.presence.Upsert(userID, displayName, first)
		displaced, remaining := a.registry.Register(connID, userID)
		if displaced != "" && remaining == 0 {
			a.presence.SetConnected(displaced, false)
		}
		a.presence.SetConnected(userID, true)
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToConn(a.id, connID, EventJoined, JoinedView{
			Self:      self.Clone(),
			Users:     a.presence.Roster(),
			Questions: a.content.Questions(),
			Topics:    a.content.Topics(),
			Round:     a.engine.State(),
			History:   a.engine.History(),
		})
		a.bcast.ToRoom(a.id, EventUsers, UsersView{Users: a.presence.Roster()})
		return nil
	})
}

// HandleDisconnect drops the connection binding. The last connection going
// away only marks the user absent from the visible roster; stored flags and
// score are untouched, and the buzz lock is deliberately not released.
func (a *Authority) HandleDisconnect(ctx context.Context, connID string) error {
	return a.do(ctx, func() error {
		userID, remaining, ok := a.registry.Unregister(connID)
		if !ok {
			return nil
		}
		if remaining == 0 {
			a.presence.SetConnected(userID, false)
			a.bcast.ToRoom(a.id, EventUsers, UsersView{Users: a.presence.Roster()})
		}
		return nil
	})
}

func (a *Authority) HandleChangeName(ctx context.Context, senderID, newName string) error {
	return a.do(ctx, func() error {
		if err := a.presence.Rename(senderID, newName); err != nil {
			return err
		}
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventNameChanged, NameChangedView{UserID: senderID, Name: newName})
		a.bcast.ToRoom(a.id, EventUsers, UsersView{Users: a.presence.Roster()})
		return nil
	})
}

// HandleUpdateUserToggles merges partial role flags. Users may toggle their
// own flags; changing someone else's requires the admin flag.
func (a *Authority) HandleUpdateUserToggles(ctx context.Context, senderID, targetID string, t model.UserToggles) error {
	return a.do(ctx, func() error {
		if senderID != targetID {
			if err := a.requireAdmin(senderID); err != nil {
				return err
			}
		}
		if err := a.presence.SetFlags(targetID, t); err != nil {
			return err
		}
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventUsers, UsersView{Users: a.presence.Roster()})
		return nil
	})
}

func (a *Authority) HandleAddQuestion(ctx context.Context, senderID string, q model.Question) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if _, err := a.content.AddQuestion(q); err != nil {
			return err
		}
		return a.persistAndBroadcastQuestions(ctx)
	})
}

func (a *Authority) HandleUpdateQuestion(ctx context.Context, senderID string, q model.Question) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if _, err := a.content.UpdateQuestion(q); err != nil {
			return err
		}
		return a.persistAndBroadcastQuestions(ctx)
	})
}

func (a *Authority) HandleDeleteQuestion(ctx context.Context, senderID, questionID string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if err := a.content.DeleteQuestion(questionID); err != nil {
			return err
		}
		return a.persistAndBroadcastQuestions(ctx)
	})
}

func (a *Authority) HandleReorderQuestions(ctx context.Context, senderID string, idOrder []string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		a.content.Reorder(idOrder)
		return a.persistAndBroadcastQuestions(ctx)
	})
}

func (a *Authority) HandleUpdateRevealState(ctx context.Context, senderID, questionID string, revealed bool) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if err := a.content.SetRevealed(questionID, revealed); err != nil {
			return err
		}
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventRevealState, RevealStateView{QuestionID: questionID, Revealed: revealed})
		return nil
	})
}

func (a *Authority) HandleAddTopic(ctx context.Context, senderID, name string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		a.content.AddTopic(name)
		return a.persistAndBroadcastTopics(ctx)
	})
}

func (a *Authority) HandleRemoveTopic(ctx context.Context, senderID, name string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		a.content.RemoveTopic(name)
		return a.persistAndBroadcastTopics(ctx)
	})
}

func (a *Authority) HandleStartRound(ctx context.Context, senderID string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if err := a.engine.Start(); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventRoundStarted, RoundView{Round: a.engine.State()})
		return nil
	})
}

func (a *Authority) HandleBuzz(ctx context.Context, senderID string) error {
	return a.do(ctx, func() error {
		if err := a.engine.Buzz(senderID); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventBuzzerActivated, BuzzerView{UserID: senderID, Round: a.engine.State()})
		return nil
	})
}

func (a *Authority) HandleSubmitAnswer(ctx context.Context, senderID, answer string) error {
	return a.do(ctx, func() error {
		entry, err := a.engine.SubmitAnswer(senderID, answer)
		if err != nil {
			return err
		}
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventAnswerSubmitted, AnswerView{
			Entry: *entry,
			Users: a.presence.Roster(),
			Round: a.engine.State(),
		})
		a.archiveEntry(*entry)
		return nil
	})
}

func (a *Authority) HandleNextQuestion(ctx context.Context, senderID string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		if err := a.engine.Advance(); err != nil {
			return err
		}
		if a.engine.Phase() == model.PhaseFinished {
			a.bcast.ToRoom(a.id, EventGameFinished, FinishedView{
				Round:   a.engine.State(),
				Users:   a.presence.Roster(),
				History: a.engine.History(),
			})
			return nil
		}
		a.bcast.ToRoom(a.id, EventNextQuestion, RoundView{Round: a.engine.State()})
		return nil
	})
}

// HandleReset is the "play again" path: back to Idle, ledger cleared, scores
// zeroed, and the persisted scores flushed before the broadcast.
func (a *Authority) HandleReset(ctx context.Context, senderID string) error {
	return a.do(ctx, func() error {
		if err := a.requireAdmin(senderID); err != nil {
			return err
		}
		a.engine.Reset()
		if err := a.persist(ctx); err != nil {
			return err
		}
		a.bcast.ToRoom(a.id, EventRoundReset, ResetView{
			Round: a.engine.State(),
			Users: a.presence.Roster(),
		})
		return nil
	})
}

// Snapshot returns the current persisted form (serialized like any mutation,
// so it never observes a half-applied operation).
func (a *Authority) Snapshot(ctx context.Context) (*model.RoomSnapshot, error) {
	var snap *model.RoomSnapshot
	err := a.do(ctx, func() error {
		snap = a.snapshot()
		return nil
	})
	return snap, err
}

func (a *Authority) requireAdmin(userID string) error {
	u, ok := a.presence.Get(userID)
	if !ok {
		return ErrUserNotFound
	}
	if !u.IsAdmin {
		return ErrNotAllowed
	}
	return nil
}

func (a *Authority) snapshot() *model.RoomSnapshot {
	questions, topics, reveal := a.content.Snapshot()
	return &model.RoomSnapshot{
		Users:     a.presence.Snapshot(),
		Questions: questions,
		Topics:    topics,
		Reveal:    reveal,
	}
}

func (a *Authority) persist(ctx context.Context) error {
	if err := a.store.Save(ctx, a.id, a.snapshot()); err != nil {
		return fmt.Errorf("persist room %s: %w", a.id, err)
	}
	return nil
}

func (a *Authority) persistAndBroadcastQuestions(ctx context.Context) error {
	if err := a.persist(ctx); err != nil {
		return err
	}
	a.bcast.ToRoom(a.id, EventQuestions, QuestionsView{Questions: a.content.Questions()})
	return nil
}

func (a *Authority) persistAndBroadcastTopics(ctx context.Context) error {
	if err := a.persist(ctx); err != nil {
		return err
	}
	a.bcast.ToRoom(a.id, EventTopics, TopicsView{Topics: a.content.Topics()})
	return nil
}

func (a *Authority) archiveEntry(entry model.HistoryEntry) {
	if a.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.archive.Insert(ctx, a.id, entry); err != nil {
			a.log.Warn("history archive write failed", "error", err)
		}
	}()
}
