// Package content loads and validates revision question banks from JSON
// content files. The file format is checked against an embedded JSON schema
// before any of it is unmarshalled into domain types.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// compiledSchema compiles the embedded content schema once.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(schemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://revision-content.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}

// Load reads a question bank from a JSON content file, validates it against
// the content schema, and returns the decoded bank.
func Load(path string) (*question.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a question bank from raw JSON.
func Parse(data []byte) (*question.Bank, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid content JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("content schema validation: %w", err)
	}

	var bank question.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

// ShuffleQuestions returns a new slice with questions in uniform random
// order (Fisher-Yates). Used as the non-smart fallback ordering.
func ShuffleQuestions(questions []question.Question) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
