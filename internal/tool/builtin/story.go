// Package builtin implements the fixed tool catalog the model may call:
// five read tools over the story graph and four write tools over passages.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pennwright/inkwell/internal/story"
	toolcore "github.com/pennwright/inkwell/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &StoryOverviewTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &CurrentPassageTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &AllPassagesTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &PassageByNameTool{} })
}

// passagePayload is the wire shape read tools return for one passage.
type passagePayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	Tags           []string `json:"tags"`
	IsStartPassage bool     `json:"isStartPassage"`
}

func payloadFor(s *story.Story, p *story.Passage) passagePayload {
	return passagePayload{
		ID:             p.ID,
		Name:           p.Name,
		Text:           p.Text,
		Tags:           p.Tags,
		IsStartPassage: p.ID == s.StartPassage,
	}
}

func noParameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

// StoryOverviewTool reports story-level metadata and aggregate stats.
type StoryOverviewTool struct{}

func (t *StoryOverviewTool) Name() string {
	return "get_story_overview"
}

func (t *StoryOverviewTool) Description() string {
	return "Get an overview of the current story including name, passage count, stats, and metadata."
}

func (t *StoryOverviewTool) Parameters() map[string]interface{} {
	return noParameters()
}

func (t *StoryOverviewTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	stats := s.Stats()
	return toolcore.OK("Retrieved story overview", map[string]interface{}{
		"name":         s.Name,
		"passageCount": len(s.Passages),
		"startPassage": s.StartPassage,
		"stats": map[string]interface{}{
			"totalWords":      stats.Words,
			"totalCharacters": stats.Characters,
			"totalPassages":   stats.Passages,
			"brokenLinks":     stats.BrokenLinks,
		},
		"tags":        s.Tags,
		"storyFormat": s.Format,
	})
}

// CurrentPassageTool returns the passage being edited.
type CurrentPassageTool struct{}

func (t *CurrentPassageTool) Name() string {
	return "get_current_passage"
}

func (t *CurrentPassageTool) Description() string {
	return "Get the passage currently being edited, including its id, name, text, and tags."
}

func (t *CurrentPassageTool) Parameters() map[string]interface{} {
	return noParameters()
}

func (t *CurrentPassageTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	if tc.PassageID == "" {
		return toolcore.Fail("No passage selected")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	p, ok := s.PassageWithID(tc.PassageID)
	if !ok {
		return toolcore.Fail("Passage not found: %s", tc.PassageID)
	}

	return toolcore.OK("Retrieved current passage", payloadFor(s, p))
}

// AllPassagesTool lists every passage in the story.
type AllPassagesTool struct{}

func (t *AllPassagesTool) Name() string {
	return "get_all_passages"
}

func (t *AllPassagesTool) Description() string {
	return "Get a list of all passages in the current story."
}

func (t *AllPassagesTool) Parameters() map[string]interface{} {
	return noParameters()
}

func (t *AllPassagesTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	passages := make([]passagePayload, 0, len(s.Passages))
	for _, p := range s.Passages {
		passages = append(passages, payloadFor(s, p))
	}

	return toolcore.OK(
		fmt.Sprintf("Retrieved %d passages", len(passages)),
		map[string]interface{}{"passages": passages},
	)
}

// PassageByNameTool fetches a single passage by exact name.
type PassageByNameTool struct{}

func (t *PassageByNameTool) Name() string {
	return "get_passage_by_name"
}

func (t *PassageByNameTool) Description() string {
	return "Get a specific passage by its name."
}

func (t *PassageByNameTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"passageName": map[string]interface{}{
				"type":        "string",
				"description": "The name of the passage to retrieve",
			},
		},
		"required": []string{"passageName"},
	}
}

func (t *PassageByNameTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		PassageName string `json:"passageName"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.PassageName == "" {
		return toolcore.Fail("passageName is required")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	p, ok := s.PassageWithName(args.PassageName)
	if !ok {
		return toolcore.Fail("Passage not found: %s", args.PassageName)
	}

	return toolcore.OK(fmt.Sprintf("Retrieved passage: %s", args.PassageName), payloadFor(s, p))
}
