package models

// Question is one multiple-choice trivia question
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Text         string   `json:"text" yaml:"text"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct"`
	Hint         string   `json:"hint,omitempty" yaml:"hint"`
	Category     string   `json:"category,omitempty" yaml:"category"`
}

// PublicQuestion is a question as shown to players before reveal
type PublicQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Category string   `json:"category,omitempty"`
}

// Public strips the answer key and hint
func (q *Question) Public() *PublicQuestion {
	return &PublicQuestion{
		ID:       q.ID,
		Text:     q.Text,
		Options:  append([]string(nil), q.Options...),
		Category: q.Category,
	}
}
