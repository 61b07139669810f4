package tool

import (
	"fmt"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	"github.com/pennwright/inkwell/internal/story"
)

// Context carries the editing state one tool invocation runs against. It is
// constructed fresh per action and passed explicitly; tools hold no ambient
// state.
type Context struct {
	StoryID   string
	PassageID string // current passage; empty when none is open
	Stories   story.Query
	Dispatch  story.Dispatch
}

// CurrentStory resolves the context's story from a fresh query.
func (tc Context) CurrentStory() (*story.Story, error) {
	s, ok := story.WithID(tc.Stories(), tc.StoryID)
	if !ok {
		return nil, inkwellErrors.NotFound(fmt.Sprintf("story %s", tc.StoryID))
	}
	return s, nil
}

// ResolvePassage finds a passage by id first, falling back to name lookup.
func ResolvePassage(s *story.Story, passageID, passageName string) (*story.Passage, bool) {
	if passageID != "" {
		if p, ok := s.PassageWithID(passageID); ok {
			return p, true
		}
	}
	if passageName != "" {
		if p, ok := s.PassageWithName(passageName); ok {
			return p, true
		}
	}
	return nil, false
}
