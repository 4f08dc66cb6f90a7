package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vredchenko/cscs-card-audio-revision/internal/content"
	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
)

const validContent = `{
	"version": "1.0",
	"metadata": {
		"title": "Test Bank",
		"description": "Questions for loader tests"
	},
	"questions": [
		{
			"id": "q1",
			"question": "Pick one",
			"answers": ["a", "b", "c"],
			"correctAnswerIndex": 0,
			"category": "General"
		},
		{
			"id": "q2",
			"question": "Pick two",
			"answers": ["a", "b", "c", "d"],
			"correctAnswerIndices": [1, 3],
			"multipleAnswers": true
		}
	]
}`

func TestParse_ValidContent(t *testing.T) {
	bank, err := content.Parse([]byte(validContent))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if bank.Metadata.Title != "Test Bank" {
		t.Errorf("expected title 'Test Bank', got %q", bank.Metadata.Title)
	}
	if len(bank.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(bank.Questions))
	}
	if !bank.Questions[1].Key.Grade([]int{3, 1}) {
		t.Error("expected multi-answer key to survive parsing")
	}
}

func TestParse_RejectsMissingAnswerKey(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"metadata": {"title": "t", "description": "d"},
		"questions": [
			{"id": "q1", "question": "x", "answers": ["a", "b"]}
		]
	}`)

	if _, err := content.Parse(data); err == nil {
		t.Error("expected schema validation to reject question without answer key")
	}
}

func TestParse_RejectsMultipleAnswersWithoutIndices(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"metadata": {"title": "t", "description": "d"},
		"questions": [
			{"id": "q1", "question": "x", "answers": ["a", "b"], "multipleAnswers": true, "correctAnswerIndex": 0}
		]
	}`)

	if _, err := content.Parse(data); err == nil {
		t.Error("expected schema validation to require correctAnswerIndices when multipleAnswers is set")
	}
}

func TestParse_RejectsEmptyQuestionList(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"metadata": {"title": "t", "description": "d"},
		"questions": []
	}`)

	if _, err := content.Parse(data); err == nil {
		t.Error("expected empty question list to be rejected")
	}
}

func TestParse_RejectsInvalidJSON(t *testing.T) {
	if _, err := content.Parse([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	if err := os.WriteFile(path, []byte(validContent), 0o644); err != nil {
		t.Fatal(err)
	}

	bank, err := content.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(bank.Questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(bank.Questions))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := content.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestShuffleQuestions_PreservesSetAndInput(t *testing.T) {
	questions := make([]question.Question, 20)
	for i := range questions {
		questions[i] = question.Question{ID: string(rune('a' + i))}
	}
	original := make([]question.Question, len(questions))
	copy(original, questions)

	shuffled := content.ShuffleQuestions(questions)

	if len(shuffled) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(shuffled))
	}
	for i := range questions {
		if questions[i].ID != original[i].ID {
			t.Fatal("expected input slice to be untouched")
		}
	}
	seen := make(map[string]bool, len(shuffled))
	for _, q := range shuffled {
		seen[q.ID] = true
	}
	for _, q := range original {
		if !seen[q.ID] {
			t.Errorf("question %s missing from shuffle", q.ID)
		}
	}
}
