package room

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/santistebanc/partytime-sub000/internal/model"
)

// Content holds the ordered question deck, the topic set and per-question
// reveal flags. Question ids are assigned once and never reused, so history
// references stay resolvable; deleting a referenced question leaves a
// dangling id in the ledger, which snapshots enough to stay renderable.
type Content struct {
	questions []*model.Question
	topics    []string
}

func NewContent() *Content {
	return &Content{}
}

// AddQuestion assigns the id and appends the question to the deck.
func (c *Content) AddQuestion(q model.Question) (*model.Question, error) {
	if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
		return nil, ErrInvalidQuestion
	}
	if !model.ValidPointValue(q.PointValue) {
		return nil, ErrInvalidQuestion
	}
	q.ID = uuid.NewString()
	stored := q.Clone()
	c.questions = append(c.questions, stored)
	return stored, nil
}

// UpdateQuestion replaces everything but the identity.
func (c *Content) UpdateQuestion(q model.Question) (*model.Question, error) {
	if !model.ValidPointValue(q.PointValue) {
		return nil, ErrInvalidQuestion
	}
	for i, cur := range c.questions {
		if cur.ID == q.ID {
			upd := q.Clone()
			upd.ID = cur.ID
			c.questions[i] = upd
			return upd, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (c *Content) DeleteQuestion(id string) error {
	for i, cur := range c.questions {
		if cur.ID == id {
			c.questions = append(c.questions[:i], c.questions[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// Reorder rebuilds the deck by filtering the given id order through the
// current contents: the result is exactly the known-and-listed questions in
// the given order, with no duplicates. Unknown ids are silently ignored, so a
// stale order list can never corrupt the deck.
func (c *Content) Reorder(idOrder []string) {
	byID := make(map[string]*model.Question, len(c.questions))
	for _, q := range c.questions {
		byID[q.ID] = q
	}
	rebuilt := make([]*model.Question, 0, len(idOrder))
	seen := make(map[string]bool, len(idOrder))
	for _, id := range idOrder {
		q, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		rebuilt = append(rebuilt, q)
	}
	c.questions = rebuilt
}

func (c *Content) SetRevealed(id string, revealed bool) error {
	for _, q := range c.questions {
		if q.ID == id {
			q.Revealed = revealed
			return nil
		}
	}
	return ErrQuestionNotFound
}

// AddTopic has set semantics: adding an existing topic is a no-op.
func (c *Content) AddTopic(name string) {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(c.topics, name) {
		return
	}
	c.topics = append(c.topics, name)
}

func (c *Content) RemoveTopic(name string) {
	for i, t := range c.topics {
		if t == name {
			c.topics = append(c.topics[:i], c.topics[i+1:]...)
			return
		}
	}
}

func (c *Content) Len() int {
	return len(c.questions)
}

func (c *Content) QuestionAt(i int) (*model.Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return nil, false
	}
	return c.questions[i], true
}

func (c *Content) Questions() []*model.Question {
	return slices.Clone(c.questions)
}

func (c *Content) Topics() []string {
	return slices.Clone(c.topics)
}

// Snapshot returns the persisted form: question list plus a separate
// reveal-state map keyed by question id.
func (c *Content) Snapshot() (questions []*model.Question, topics []string, reveal map[string]bool) {
	questions = make([]*model.Question, 0, len(c.questions))
	reveal = make(map[string]bool, len(c.questions))
	for _, q := range c.questions {
		questions = append(questions, q.Clone())
		reveal[q.ID] = q.Revealed
	}
	return questions, slices.Clone(c.topics), reveal
}

// Restore replaces the deck from a persisted snapshot, merging the reveal map
// back onto the questions.
func (c *Content) Restore(questions []*model.Question, topics []string, reveal map[string]bool) {
	c.questions = make([]*model.Question, 0, len(questions))
	for _, q := range questions {
		restored := q.Clone()
		if reveal != nil {
			restored.Revealed = reveal[q.ID]
		}
		c.questions = append(c.questions, restored)
	}
	c.topics = slices.Clone(topics)
}
