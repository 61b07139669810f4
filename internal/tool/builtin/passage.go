package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pennwright/inkwell/internal/story"
	toolcore "github.com/pennwright/inkwell/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &CreatePassageTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &UpdatePassageTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &DeletePassageTool{} })
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &AppendPassageTool{} })
}

// Default canvas position for passages the model creates.
const (
	defaultPassageLeft = 100
	defaultPassageTop  = 100
)

func passageRef(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

// CreatePassageTool adds a new passage to the story.
type CreatePassageTool struct{}

func (t *CreatePassageTool) Name() string {
	return "create_new_passage"
}

func (t *CreatePassageTool) Description() string {
	return "Create a new passage in the story."
}

func (t *CreatePassageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "The name of the new passage",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The text content of the passage",
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"description": "Tags for the passage",
				"items":       map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"name", "text"},
	}
}

func (t *CreatePassageTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		Name string   `json:"name"`
		Text string   `json:"text"`
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.Name == "" {
		return toolcore.Fail("name is required")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	if _, exists := s.PassageWithName(args.Name); exists {
		return toolcore.Fail("Passage %q already exists", args.Name)
	}

	tags := args.Tags
	if tags == nil {
		tags = []string{}
	}
	err = tc.Dispatch(story.Action{
		Type:    story.ActionCreatePassage,
		StoryID: tc.StoryID,
		Props: story.PassageProps{
			Name: story.StrPtr(args.Name),
			Text: story.StrPtr(args.Text),
			Tags: story.TagsPtr(tags),
			Left: story.FloatPtr(defaultPassageLeft),
			Top:  story.FloatPtr(defaultPassageTop),
		},
	})
	if err != nil {
		return toolcore.Fail("Failed to create passage: %v", err)
	}

	return toolcore.OK(
		fmt.Sprintf("Created passage: %s", args.Name),
		map[string]interface{}{"name": args.Name, "text": args.Text},
	)
}

// UpdatePassageTool updates a passage's text, name, or tags. The target is
// resolved by id first, then by name.
type UpdatePassageTool struct{}

func (t *UpdatePassageTool) Name() string {
	return "update_passage_content"
}

func (t *UpdatePassageTool) Description() string {
	return "Update the content of a passage. Can update text, name, or tags."
}

func (t *UpdatePassageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"passageId": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the passage to update",
			},
			"passageName": map[string]interface{}{
				"type":        "string",
				"description": "The name of the passage to update (alternative to passageId)",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The new text content for the passage",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "New name for the passage",
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"description": "New tags for the passage",
				"items":       map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{},
	}
}

func (t *UpdatePassageTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		PassageID   string    `json:"passageId"`
		PassageName string    `json:"passageName"`
		Text        *string   `json:"text"`
		Name        *string   `json:"name"`
		Tags        *[]string `json:"tags"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.PassageID == "" && args.PassageName == "" {
		return toolcore.Fail("Must provide either passageId or passageName")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	p, ok := toolcore.ResolvePassage(s, args.PassageID, args.PassageName)
	if !ok {
		return toolcore.Fail("Passage not found: %s", passageRef(args.PassageID, args.PassageName))
	}

	updated := map[string]interface{}{}
	props := story.PassageProps{}
	if args.Text != nil {
		props.Text = args.Text
		updated["text"] = *args.Text
	}
	if args.Name != nil {
		props.Name = args.Name
		updated["name"] = *args.Name
	}
	if args.Tags != nil {
		props.Tags = args.Tags
		updated["tags"] = *args.Tags
	}

	err = tc.Dispatch(story.Action{
		Type:      story.ActionUpdatePassage,
		StoryID:   tc.StoryID,
		PassageID: p.ID,
		Props:     props,
	})
	if err != nil {
		return toolcore.Fail("Failed to update passage: %v", err)
	}

	return toolcore.OK(
		fmt.Sprintf("Updated passage: %s", p.Name),
		map[string]interface{}{"passageId": p.ID, "passageName": p.Name, "updated": updated},
	)
}

// DeletePassageTool removes a passage by id or name.
type DeletePassageTool struct{}

func (t *DeletePassageTool) Name() string {
	return "delete_passage"
}

func (t *DeletePassageTool) Description() string {
	return "Delete a passage from the story."
}

func (t *DeletePassageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"passageId": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the passage to delete",
			},
			"passageName": map[string]interface{}{
				"type":        "string",
				"description": "The name of the passage to delete (alternative to passageId)",
			},
		},
		"required": []string{},
	}
}

func (t *DeletePassageTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		PassageID   string `json:"passageId"`
		PassageName string `json:"passageName"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.PassageID == "" && args.PassageName == "" {
		return toolcore.Fail("Must provide either passageId or passageName")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	p, ok := toolcore.ResolvePassage(s, args.PassageID, args.PassageName)
	if !ok {
		return toolcore.Fail("Passage not found: %s", passageRef(args.PassageID, args.PassageName))
	}

	err = tc.Dispatch(story.Action{
		Type:      story.ActionDeletePassage,
		StoryID:   tc.StoryID,
		PassageID: p.ID,
	})
	if err != nil {
		return toolcore.Fail("Failed to delete passage: %v", err)
	}

	return toolcore.OK(fmt.Sprintf("Deleted passage: %s", p.Name), nil)
}

// AppendPassageTool appends text to the end of the current passage.
type AppendPassageTool struct{}

func (t *AppendPassageTool) Name() string {
	return "append_to_current_passage"
}

func (t *AppendPassageTool) Description() string {
	return "Append text to the end of the currently selected passage."
}

func (t *AppendPassageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The text to append",
			},
		},
		"required": []string{"text"},
	}
}

func (t *AppendPassageTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.Text == "" {
		return toolcore.Fail("text is required")
	}
	if tc.PassageID == "" {
		return toolcore.Fail("No passage currently selected")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	p, ok := s.PassageWithID(tc.PassageID)
	if !ok {
		return toolcore.Fail("Passage not found: %s", tc.PassageID)
	}

	newText := p.Text + args.Text
	err = tc.Dispatch(story.Action{
		Type:      story.ActionUpdatePassage,
		StoryID:   tc.StoryID,
		PassageID: p.ID,
		Props:     story.PassageProps{Text: story.StrPtr(newText)},
	})
	if err != nil {
		return toolcore.Fail("Failed to append to passage: %v", err)
	}

	return toolcore.OK(
		fmt.Sprintf("Appended %d characters to %s", len(args.Text), p.Name),
		map[string]interface{}{"passageId": p.ID, "length": len(newText)},
	)
}
