// Package seed loads the initial question set: either the dataset bundled
// into the binary or a JSON object fetched from S3.
//
// The format is a JSON object keyed by question id:
//
//	{"1": {"id": 1, "title": "...", "content": "...", "tags": ["go"]}}
package seed

import (
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/rush/internal/server/models"
)

//go:embed questions.json
var bundled []byte

// ErrInvalidSeed reports a structurally valid JSON document that does not
// describe a question set.
var ErrInvalidSeed = errors.New("invalid seed document")

// Source yields the questions to seed a store with.
type Source interface {
	Load(ctx context.Context) ([]models.Question, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.Question, error)

func (f SourceFunc) Load(ctx context.Context) ([]models.Question, error) {
	return f(ctx)
}

// Embedded returns the dataset compiled into the binary.
func Embedded() Source {
	return SourceFunc(func(ctx context.Context) ([]models.Question, error) {
		return Parse(bundled)
	})
}

// None returns an empty source.
func None() Source {
	return SourceFunc(func(context.Context) ([]models.Question, error) {
		return nil, nil
	})
}

// Parse decodes a seed document. Questions come back ordered by id and
// without an owner. A body id, when present, must match its key.
func Parse(data []byte) ([]models.Question, error) {
	var doc map[string]models.Question
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	result := make([]models.Question, 0, len(doc))
	for key, q := range doc {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("seed key %q: %w", key, ErrInvalidSeed)
		}
		if q.ID != 0 && int64(q.ID) != id {
			return nil, fmt.Errorf("seed key %q holds question %d: %w", key, q.ID, ErrInvalidSeed)
		}
		q.ID = models.QuestionID(id)
		q.AccountID = 0
		q.Tags = models.NormalizeTags(q.Tags)
		result = append(result, q)
	}

	slices.SortFunc(result, func(a, b models.Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}
