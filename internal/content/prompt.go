package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"brainstorm/internal/model"
)

var difficultyLabels = map[model.Difficulty]string{
	model.DifficultyEasy:   "EASY: simple facts any school student knows",
	model.DifficultyMedium: "MEDIUM: for a well-read adult, needs general culture",
	model.DifficultyHard:   "HARD: expert level, deep specialised knowledge",
}

// BuildPrompt renders the instruction sent to the upstream generator
func BuildPrompt(req Request) string {
	label, ok := difficultyLabels[req.Difficulty]
	if !ok {
		label = difficultyLabels[model.DifficultyMedium]
	}

	example, _ := json.MarshalIndent(map[string]any{
		"questions": []map[string]any{
			{
				"question": "What is the chemical symbol for iron?",
				"options":  exampleOptions(req.OptionCount),
				"correct":  0,
			},
		},
	}, "", "  ")

	ordinals := []string{"first = 0", "second = 1", "third = 2", "fourth = 3", "fifth = 4", "sixth = 5"}
	if req.OptionCount < len(ordinals) {
		ordinals = ordinals[:req.OptionCount]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create EXACTLY %d quiz questions on the topic %q.\n", req.Count, req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s.\n\n", label)
	b.WriteString("RULES (strict):\n")
	fmt.Fprintf(&b, "1. Every question has EXACTLY %d answer options.\n", req.OptionCount)
	fmt.Fprintf(&b, "2. \"correct\" is the index of the right option, from 0 to %d. ", req.OptionCount-1)
	fmt.Fprintf(&b, "Indexing STARTS AT ZERO: %s.\n", strings.Join(ordinals, ", "))
	b.WriteString("3. Questions must be FACTUALLY CORRECT; the marked answer must really be right.\n")
	b.WriteString("4. Answer ONLY with valid JSON, no explanations and no markdown.\n\n")
	fmt.Fprintf(&b, "Format:\n%s\n\n", example)
	fmt.Fprintf(&b, "Create %d questions on the topic %q:", req.Count, req.Topic)
	return b.String()
}

func exampleOptions(n int) []string {
	all := []string{"Fe", "Au", "Ag", "Cu", "Zn", "Pb"}
	if n < 2 {
		n = 2
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
