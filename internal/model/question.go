package model

// Point values are constrained to a fixed difficulty tier set.
var PointTiers = []int{10, 20, 30}

// Question is one quiz question. The ID is assigned once at creation and is
// never reused, even after deletion.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	CorrectAnswer string   `json:"correctAnswer"`
	Distractors   []string `json:"distractors"`
	Topic         string   `json:"topic"`
	PointValue    int      `json:"pointValue"`
	Revealed      bool     `json:"revealed"`
}

func ValidPointValue(v int) bool {
	for _, t := range PointTiers {
		if v == t {
			return true
		}
	}
	return false
}

func (q *Question) Clone() *Question {
	c := *q
	c.Distractors = append([]string(nil), q.Distractors...)
	return &c
}
