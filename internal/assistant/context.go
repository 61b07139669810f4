package assistant

import (
	"github.com/pennwright/inkwell/internal/story"
	"github.com/pennwright/inkwell/internal/textpos"
	"github.com/pennwright/inkwell/internal/tool"
)

// Selection is the editor's current text selection within the passage.
type Selection struct {
	Range textpos.Range
	Text  string
}

// ControlContext is the editing state one action runs against. It is
// constructed fresh per invocation and owned by the action for its
// duration.
type ControlContext struct {
	StoryID   string
	PassageID string
	Selection *Selection
	Cursor    *textpos.Position
	Stories   story.Query
	Dispatch  story.Dispatch
}

func (cc ControlContext) toolContext() tool.Context {
	return tool.Context{
		StoryID:   cc.StoryID,
		PassageID: cc.PassageID,
		Stories:   cc.Stories,
		Dispatch:  cc.Dispatch,
	}
}

// passage resolves the current passage from a fresh query. Returns false
// when no passage is open or it no longer exists.
func (cc ControlContext) passage() (*story.Passage, bool) {
	if cc.PassageID == "" {
		return nil, false
	}
	s, ok := story.WithID(cc.Stories(), cc.StoryID)
	if !ok {
		return nil, false
	}
	return s.PassageWithID(cc.PassageID)
}

// updatePassageText writes new text onto the current passage. Handlers and
// undo share this write-back path.
func updatePassageText(cc ControlContext, passageID, text string) error {
	return cc.Dispatch(story.Action{
		Type:      story.ActionUpdatePassage,
		StoryID:   cc.StoryID,
		PassageID: passageID,
		Props:     story.PassageProps{Text: story.StrPtr(text)},
	})
}
