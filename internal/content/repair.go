package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"brainstorm/internal/model"
)

const minQuestionRunes = 10

var junkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(question|q)\s*#?\s*\d*\s*[:.?!-]?\s*$`),
	regexp.MustCompile(`^\s*(\.{2,}|…+|\?+)\s*$`),
	regexp.MustCompile(`(?i)^\s*(todo|tbd|n/?a|placeholder|lorem ipsum.*)\s*$`),
}

// FixIndexing shifts a whole batch from 1-based to 0-based indexing when
// every present numeric correct value lies in [1, arity]. Items resolved
// from option text are neither checked nor shifted. It reports whether the
// batch was shifted.
func FixIndexing(items []RawQuestion, arity int) bool {
	seen := 0
	for _, it := range items {
		if !it.HasCorrect || it.FromText {
			continue
		}
		if it.Correct < 1 || it.Correct > arity {
			return false
		}
		seen++
	}
	if seen == 0 {
		return false
	}
	for i := range items {
		if items[i].HasCorrect && !items[i].FromText {
			items[i].Correct--
		}
	}
	return true
}

// Repair normalizes one item to exactly arity options and a valid correct
// index, or rejects it. Blank options are dropped, long lists are truncated
// and short ones padded with "Option C", "Option D"... placeholders. An
// out-of-range correct index resets to 0.
func Repair(item RawQuestion, arity int) (model.Question, bool) {
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return model.Question{}, false
	}

	opts := make([]string, 0, arity)
	for _, o := range item.Options {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	if len(opts) < model.MinOptionCount {
		return model.Question{}, false
	}
	if len(opts) > arity {
		opts = opts[:arity]
	}
	for len(opts) < arity {
		opts = append(opts, placeholderOption(len(opts)))
	}

	correct := item.Correct
	if !item.HasCorrect || correct < 0 || correct >= len(opts) {
		correct = 0
	}

	q := model.Question{Text: text, Options: opts, CorrectIndex: correct}
	if IsBad(q) {
		return model.Question{}, false
	}
	return q, true
}

func placeholderOption(i int) string {
	return fmt.Sprintf("Option %c", 'A'+i)
}

// IsBad reports questions that should never be shown: short or placeholder
// text, blank options, or options that repeat each other ignoring case.
func IsBad(q model.Question) bool {
	if utf8.RuneCountInString(strings.TrimSpace(q.Text)) < minQuestionRunes {
		return true
	}
	for _, re := range junkPatterns {
		if re.MatchString(q.Text) {
			return true
		}
	}
	if len(q.Options) < model.MinOptionCount {
		return true
	}
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			return true
		}
		key := fold.String(o)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
