package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://monarch-content.json"

func stringField() map[string]any {
	return map[string]any{"type": "string"}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func choiceQuestion(promptField string, extra ...string) map[string]any {
	props := map[string]any{
		"id":           nonEmptyString(),
		promptField:    stringField(),
		"options":      map[string]any{"type": "array", "minItems": 1, "items": stringField()},
		"correctIndex": map[string]any{"type": "integer", "minimum": 0},
	}
	required := []any{"id", promptField, "options", "correctIndex"}
	for _, f := range extra {
		props[f] = stringField()
		required = append(required, f)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// contentSchema describes the catalog document shape.
var contentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"dailyAdvice": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":       nonEmptyString(),
					"tip":      stringField(),
					"sfSymbol": stringField(),
				},
				"required": []any{"id", "tip"},
			},
		},
		"categories": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        nonEmptyString(),
					"title":     stringField(),
					"subtitle":  stringField(),
					"imageName": stringField(),
					"sfSymbol":  stringField(),
					"lessons": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":        nonEmptyString(),
								"title":     stringField(),
								"content":   stringField(),
								"keyPoints": map[string]any{"type": "array", "items": stringField()},
							},
							"required": []any{"id", "title", "content"},
						},
					},
					"quizzes":   map[string]any{"type": "array", "items": choiceQuestion("question")},
					"scenarios": map[string]any{"type": "array", "items": choiceQuestion("situation", "explanation")},
				},
				"required": []any{"id", "title", "lessons", "quizzes", "scenarios"},
			},
		},
	},
	"required": []any{"dailyAdvice", "categories"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees plain decoded values.
		b, err := json.Marshal(contentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw catalog JSON against the content schema and checks
// that every correctIndex addresses one of its options.
func Validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return fmt.Errorf("decode content: %w", err)
	}
	for _, cat := range content.Categories {
		for _, q := range cat.Quizzes {
			if q.CorrectIndex >= len(q.Options) {
				return fmt.Errorf("category %q quiz %q: correctIndex %d out of range", cat.ID, q.ID, q.CorrectIndex)
			}
		}
		for _, s := range cat.Scenarios {
			if s.CorrectIndex >= len(s.Options) {
				return fmt.Errorf("category %q scenario %q: correctIndex %d out of range", cat.ID, s.ID, s.CorrectIndex)
			}
		}
	}
	return nil
}
