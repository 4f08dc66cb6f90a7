package question

import "fmt"

// Metadata describes a revision content file.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories,omitempty"`
	Author      string   `json:"author,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
}

// Bank is a loaded set of revision questions. The engine treats it as
// read-only input supplied at session start.
type Bank struct {
	Version   string     `json:"version"`
	Metadata  Metadata   `json:"metadata"`
	Questions []Question `json:"questions"`
}

// Validate checks every question and rejects duplicate ids.
func (b *Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("bank %q has no questions", b.Metadata.Title)
	}
	seen := make(map[string]bool, len(b.Questions))
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// ByID looks up a question by id.
func (b *Bank) ByID(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Categories returns the distinct categories present on questions,
// in first-seen order.
func (b *Bank) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range b.Questions {
		if q.Category != "" && !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
