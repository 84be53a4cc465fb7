package content

import (
	"math/rand"

	"brainstorm/internal/model"
)

// fallbackBank is served when no upstream is configured or every upstream
// attempt failed
var fallbackBank = []model.Question{
	{Text: "What is the capital of France?", Options: []string{"London", "Berlin", "Paris", "Madrid"}, CorrectIndex: 2},
	{Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectIndex: 1},
	{Text: "What is the chemical symbol for gold?", Options: []string{"Ag", "Fe", "Au", "Cu"}, CorrectIndex: 2},
	{Text: "How many continents are there on Earth?", Options: []string{"5", "6", "7", "8"}, CorrectIndex: 2},
	{Text: "Who painted the Mona Lisa?", Options: []string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"}, CorrectIndex: 2},
	{Text: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectIndex: 3},
	{Text: "In which year did the First World War begin?", Options: []string{"1905", "1914", "1918", "1939"}, CorrectIndex: 1},
	{Text: "What is the hardest natural substance?", Options: []string{"Gold", "Iron", "Diamond", "Quartz"}, CorrectIndex: 2},
	{Text: "How many bones are in the adult human body?", Options: []string{"186", "206", "226", "256"}, CorrectIndex: 1},
	{Text: "Which gas do plants absorb from the air?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"}, CorrectIndex: 2},
	{Text: "What is the longest river in the world?", Options: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, CorrectIndex: 1},
	{Text: "Who wrote the play Romeo and Juliet?", Options: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, CorrectIndex: 1},
	{Text: "What is the boiling point of water at sea level in Celsius?", Options: []string{"90", "100", "110", "120"}, CorrectIndex: 1},
	{Text: "Which element has the atomic number 1?", Options: []string{"Helium", "Oxygen", "Hydrogen", "Carbon"}, CorrectIndex: 2},
	{Text: "What is the smallest prime number?", Options: []string{"0", "1", "2", "3"}, CorrectIndex: 2},
}

// Fallback returns exactly count questions sampled from the built-in bank,
// each fitted to arity options. The bank is replicated when count exceeds
// its size so every slot is filled.
func Fallback(count, arity int, rng *rand.Rand) []model.Question {
	if count <= 0 {
		return nil
	}
	pool := make([]model.Question, 0, count+len(fallbackBank))
	for len(pool) < count {
		pool = append(pool, fallbackBank...)
	}

	out := make([]model.Question, 0, count)
	for _, i := range rng.Perm(len(pool))[:count] {
		q := fitOptions(pool[i], arity)
		if fixed, ok := Repair(RawQuestion{
			Text:       q.Text,
			Options:    q.Options,
			Correct:    q.CorrectIndex,
			HasCorrect: true,
		}, arity); ok {
			q = fixed
		}
		out = append(out, q)
	}
	return out
}

// fitOptions trims q to arity options while keeping the correct one and the
// original option order. Short lists are returned unchanged for Repair to pad.
func fitOptions(q model.Question, arity int) model.Question {
	if len(q.Options) <= arity {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		return model.Question{Text: q.Text, Options: opts, CorrectIndex: q.CorrectIndex}
	}
	opts := make([]string, 0, arity)
	correct := 0
	distractors := 0
	for i, o := range q.Options {
		switch {
		case i == q.CorrectIndex:
			correct = len(opts)
			opts = append(opts, o)
		case distractors < arity-1:
			distractors++
			opts = append(opts, o)
		}
	}
	return model.Question{Text: q.Text, Options: opts, CorrectIndex: correct}
}
