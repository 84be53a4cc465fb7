package content

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RawQuestion is an unvalidated question as recovered from upstream text
type RawQuestion struct {
	Text       string
	Options    []string
	Correct    int
	HasCorrect bool
	// FromText marks a Correct resolved by matching the answer against the
	// option texts. Such positions are always 0-based.
	FromText bool
}

var (
	fenceRe         = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\s*(.*?)\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	rxQuestion = regexp.MustCompile(`"question"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	rxOptions  = regexp.MustCompile(`"options"\s*:\s*\[([\s\S]*?)\]`)
	rxCorrect  = regexp.MustCompile(`"correct"\s*:\s*(-?\d+)`)
	rxString   = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

var (
	textKeys    = []string{"question", "text", "prompt", "q"}
	optionKeys  = []string{"options", "answers", "choices", "variants"}
	correctKeys = []string{"correct", "correctIndex", "correct_index", "answer", "correctAnswer", "correct_answer"}
)

// Parse recovers question items from upstream text. Structured decoding is
// tried first; when it yields nothing a pattern scan over the raw text pairs
// question, options and correct fields by position. ok is false when neither
// stage produced a usable item.
func Parse(raw string) (items []RawQuestion, ok bool) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "\ufeff"))
	text = stripFence(text)
	text = outerSpan(text)
	text = repairTrailingCommas(text)

	if items, err := decodeQuestions(text); err == nil && len(items) > 0 {
		return items, true
	}
	if items := extractByRegex(raw); len(items) > 0 {
		return items, true
	}
	return nil, false
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	// Unterminated fence: drop the opening line only.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// outerSpan narrows s to its outermost JSON object, or to its outermost
// array when the text opens with one.
func outerSpan(s string) string {
	open, closing := byte('{'), byte('}')
	if strings.HasPrefix(s, "[") {
		open, closing = '[', ']'
	}
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

func repairTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

type field struct {
	key   string
	value json.RawMessage
}

// decodeObjectFields decodes a JSON object keeping member order
func decodeObjectFields(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: v})
	}
	return fields, nil
}

// decodeQuestions reads the question list out of a JSON document. For an
// object a "questions" member wins; otherwise the first array member whose
// elements look like questions is used. A bare array is taken as the list
// itself.
func decodeQuestions(text string) ([]RawQuestion, error) {
	data := []byte(text)
	if strings.HasPrefix(text, "[") {
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, err
		}
		return rawItems(elems), nil
	}

	fields, err := decodeObjectFields(data)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.key != "questions" {
			continue
		}
		if elems, ok := questionArray(f.value); ok {
			return rawItems(elems), nil
		}
	}
	for _, f := range fields {
		if f.key == "questions" {
			continue
		}
		if elems, ok := questionArray(f.value); ok {
			return rawItems(elems), nil
		}
	}
	return nil, errNoQuestionList
}

func questionArray(v json.RawMessage) ([]json.RawMessage, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil || len(elems) == 0 {
		return nil, false
	}
	return elems, looksLikeQuestion(elems[0])
}

func looksLikeQuestion(elem json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(elem, &obj); err != nil {
		return false
	}
	for _, k := range textKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func rawItems(elems []json.RawMessage) []RawQuestion {
	items := make([]RawQuestion, 0, len(elems))
	for _, e := range elems {
		var obj map[string]any
		dec := json.NewDecoder(bytes.NewReader(e))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		items = append(items, rawItem(obj))
	}
	return items
}

func rawItem(obj map[string]any) RawQuestion {
	var q RawQuestion
	if v, ok := lookup(obj, textKeys); ok {
		q.Text, _ = v.(string)
	}
	if v, ok := lookup(obj, optionKeys); ok {
		if list, ok := v.([]any); ok {
			for _, o := range list {
				q.Options = append(q.Options, optionText(o))
			}
		}
	}
	if v, ok := lookup(obj, correctKeys); ok {
		q.Correct, q.HasCorrect, q.FromText = correctIndex(v, q.Options)
	}
	return q
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func optionText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if s, ok := lookup(t, []string{"text", "option", "value"}); ok {
			if str, ok := s.(string); ok {
				return str
			}
		}
	}
	return ""
}

// correctIndex converts the correct-answer field into an index. Numbers are
// taken as-is. A string is matched against the option texts first and only
// read as a number when no option matches; fromText reports the former.
func correctIndex(v any, options []string) (idx int, ok, fromText bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true, false
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return int(f), true, false
		}
	case string:
		s := strings.TrimSpace(t)
		for i, o := range options {
			if strings.EqualFold(strings.TrimSpace(o), s) {
				return i, true, true
			}
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true, false
		}
	}
	return 0, false, false
}

// extractByRegex scans the raw text for question, options and correct
// fields independently and pairs them by position
func extractByRegex(raw string) []RawQuestion {
	questions := rxQuestion.FindAllStringSubmatch(raw, -1)
	options := rxOptions.FindAllStringSubmatch(raw, -1)
	corrects := rxCorrect.FindAllStringSubmatch(raw, -1)

	n := min(len(questions), len(options), len(corrects))
	var items []RawQuestion
	for i := 0; i < n; i++ {
		text := unescape(questions[i][1])
		var opts []string
		for _, m := range rxString.FindAllStringSubmatch(options[i][1], -1) {
			opts = append(opts, unescape(m[1]))
		}
		c, err := strconv.Atoi(corrects[i][1])
		if strings.TrimSpace(text) == "" || len(opts) < 2 {
			continue
		}
		items = append(items, RawQuestion{Text: text, Options: opts, Correct: c, HasCorrect: err == nil})
	}
	return items
}

func unescape(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}
