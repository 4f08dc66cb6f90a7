package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// KeyKind discriminates the two answer-key shapes a question can have.
type KeyKind int

const (
	SingleAnswer KeyKind = iota
	MultipleAnswers
)

// AnswerKey is the correctness definition for a question. Exactly one of
// Index / Indices is meaningful, selected by Kind, so callers never have to
// guess which field to read.
type AnswerKey struct {
	Kind    KeyKind
	Index   int   // valid when Kind == SingleAnswer
	Indices []int // valid when Kind == MultipleAnswers, kept sorted
}

// Single builds a single-answer key.
func Single(index int) AnswerKey {
	return AnswerKey{Kind: SingleAnswer, Index: index}
}

// Multiple builds a multi-answer key. Indices are deduplicated and sorted.
func Multiple(indices ...int) AnswerKey {
	seen := make(map[int]bool, len(indices))
	var out []int
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return AnswerKey{Kind: MultipleAnswers, Indices: out}
}

// Grade reports whether the selected answer indices are correct.
// Single-answer keys expect exactly one selection; multi-answer keys require
// set equality with the correct indices.
func (k AnswerKey) Grade(selected []int) bool {
	switch k.Kind {
	case SingleAnswer:
		return len(selected) == 1 && selected[0] == k.Index
	case MultipleAnswers:
		if len(selected) != len(k.Indices) {
			return false
		}
		want := make(map[int]bool, len(k.Indices))
		for _, i := range k.Indices {
			want[i] = true
		}
		for _, i := range selected {
			if !want[i] {
				return false
			}
		}
		return true
	}
	return false
}

// CorrectIndices returns the correct answer indices regardless of kind.
func (k AnswerKey) CorrectIndices() []int {
	if k.Kind == SingleAnswer {
		return []int{k.Index}
	}
	out := make([]int, len(k.Indices))
	copy(out, k.Indices)
	return out
}

// PrimaryIndex returns the first correct index. Answer records store a single
// correct index, so multi-answer questions are recorded by their lowest one.
func (k AnswerKey) PrimaryIndex() int {
	if k.Kind == SingleAnswer {
		return k.Index
	}
	if len(k.Indices) == 0 {
		return -1
	}
	return k.Indices[0]
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Image is an optional illustration attached to a question.
type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
}

// Question is one multiple-choice entry from the revision content.
// Immutable for the duration of a session; the engine never writes back
// to question content.
type Question struct {
	ID          string
	Text        string
	Image       *Image
	Answers     []string
	Key         AnswerKey
	Explanation string
	Category    string
	Difficulty  Difficulty
	Tags        []string
}

// questionJSON is the wire shape used by the content files: the answer key is
// an optional-field union selected by the multipleAnswers flag.
type questionJSON struct {
	ID                   string     `json:"id"`
	Text                 string     `json:"question"`
	Image                *Image     `json:"image,omitempty"`
	Answers              []string   `json:"answers"`
	CorrectAnswerIndex   *int       `json:"correctAnswerIndex,omitempty"`
	CorrectAnswerIndices []int      `json:"correctAnswerIndices,omitempty"`
	Explanation          string     `json:"explanation,omitempty"`
	Category             string     `json:"category,omitempty"`
	Difficulty           Difficulty `json:"difficulty,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	MultipleAnswers      bool       `json:"multipleAnswers,omitempty"`
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var key AnswerKey
	if raw.MultipleAnswers {
		if len(raw.CorrectAnswerIndices) == 0 {
			return fmt.Errorf("question %q: multipleAnswers set but correctAnswerIndices missing", raw.ID)
		}
		key = Multiple(raw.CorrectAnswerIndices...)
	} else {
		if raw.CorrectAnswerIndex == nil {
			return fmt.Errorf("question %q: correctAnswerIndex missing", raw.ID)
		}
		key = Single(*raw.CorrectAnswerIndex)
	}

	*q = Question{
		ID:          raw.ID,
		Text:        raw.Text,
		Image:       raw.Image,
		Answers:     raw.Answers,
		Key:         key,
		Explanation: raw.Explanation,
		Category:    raw.Category,
		Difficulty:  raw.Difficulty,
		Tags:        raw.Tags,
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	raw := questionJSON{
		ID:          q.ID,
		Text:        q.Text,
		Image:       q.Image,
		Answers:     q.Answers,
		Explanation: q.Explanation,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		Tags:        q.Tags,
	}
	switch q.Key.Kind {
	case SingleAnswer:
		idx := q.Key.Index
		raw.CorrectAnswerIndex = &idx
	case MultipleAnswers:
		raw.MultipleAnswers = true
		raw.CorrectAnswerIndices = q.Key.CorrectIndices()
	}
	return json.Marshal(raw)
}

// Validate checks structural soundness of a single question.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id is required")
	}
	if q.Text == "" {
		return fmt.Errorf("question %q: text is required", q.ID)
	}
	if len(q.Answers) < 2 {
		return fmt.Errorf("question %q: at least 2 answers required, got %d", q.ID, len(q.Answers))
	}
	for _, i := range q.Key.CorrectIndices() {
		if i < 0 || i >= len(q.Answers) {
			return fmt.Errorf("question %q: correct index %d out of range [0,%d)", q.ID, i, len(q.Answers))
		}
	}
	if q.Key.Kind == MultipleAnswers && len(q.Key.Indices) == 0 {
		return fmt.Errorf("question %q: multi-answer key with no indices", q.ID)
	}
	switch q.Difficulty {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("question %q: unknown difficulty %q", q.ID, q.Difficulty)
	}
	return nil
}
