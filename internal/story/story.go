// Package story defines the hypertext data model: stories made of named
// passages, plus the opaque action/query channel the assistant uses to
// read and mutate them.
package story

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

type Passage struct {
	ID   string   `yaml:"id" json:"id"`
	Name string   `yaml:"name" json:"name"`
	Text string   `yaml:"text" json:"text"`
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Left float64  `yaml:"left,omitempty" json:"left,omitempty"`
	Top  float64  `yaml:"top,omitempty" json:"top,omitempty"`
}

type Story struct {
	ID           string     `yaml:"id" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	StartPassage string     `yaml:"start_passage,omitempty" json:"startPassage,omitempty"`
	Tags         []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Format       string     `yaml:"format,omitempty" json:"format,omitempty"`
	Passages     []*Passage `yaml:"passages" json:"passages"`
}

// NewID mints a ULID for stories and passages.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// WithID finds a story by id.
func WithID(stories []*Story, id string) (*Story, bool) {
	for _, s := range stories {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// PassageWithID finds a passage by id.
func (s *Story) PassageWithID(id string) (*Passage, bool) {
	for _, p := range s.Passages {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PassageWithName finds a passage by exact name.
func (s *Story) PassageWithName(name string) (*Passage, bool) {
	for _, p := range s.Passages {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// PassageIDs returns the current set of passage ids.
func (s *Story) PassageIDs() []string {
	ids := make([]string, 0, len(s.Passages))
	for _, p := range s.Passages {
		ids = append(ids, p.ID)
	}
	return ids
}
