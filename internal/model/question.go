package model

// Difficulty controls the score multiplier and the upstream prompt wording
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Multiplier returns the base score multiplier for the difficulty
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 1.0
	case DifficultyHard:
		return 2.0
	default:
		return 1.5
	}
}

// Question is a validated multiple-choice item. CorrectIndex is never sent
// to clients before the question resolves.
type Question struct {
	Text         string   `json:"question" bson:"question"`
	Options      []string `json:"options" bson:"options"`
	CorrectIndex int      `json:"correct" bson:"correct"`
}

// CorrectText returns the text of the correct option, or "?" when the index
// does not address an option.
func (q *Question) CorrectText() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return "?"
	}
	return q.Options[q.CorrectIndex]
}

// PublicQuestion is the client-facing view of a question
type PublicQuestion struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// Public strips the answer from the question
func (q *Question) Public() PublicQuestion {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return PublicQuestion{Text: q.Text, Options: opts}
}
