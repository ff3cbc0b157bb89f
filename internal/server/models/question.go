package models

import (
	"slices"
	"strings"
)

// Question is a stored question. AccountID is the owner recorded at creation;
// only that account may update or delete it. Seeded questions have no owner.
type Question struct {
	ID        QuestionID `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags,omitempty"`
	AccountID AccountID  `json:"account_id,omitempty"`
}

// NewQuestion carries the caller supplied fields of a question to create.
type NewQuestion struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}

// NormalizeTags treats tags as a set: trims blanks, drops empties and
// duplicates and sorts. Returns nil for an empty set.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
