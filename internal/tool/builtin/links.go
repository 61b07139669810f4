package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	toolcore "github.com/pennwright/inkwell/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin(func() toolcore.Tool { return &IncomingLinksTool{} })
}

// IncomingLinksTool finds the passages that link to a given passage, in any
// of the three link spellings.
type IncomingLinksTool struct{}

func (t *IncomingLinksTool) Name() string {
	return "get_incoming_links"
}

func (t *IncomingLinksTool) Description() string {
	return "Find all passages that link to a given passage (preceding passages in the story flow)."
}

func (t *IncomingLinksTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"targetPassageName": map[string]interface{}{
				"type":        "string",
				"description": "The name of the passage to find links to",
			},
		},
		"required": []string{"targetPassageName"},
	}
}

func (t *IncomingLinksTool) Execute(ctx context.Context, tc toolcore.Context, input json.RawMessage) toolcore.Result {
	var args struct {
		TargetPassageName string `json:"targetPassageName"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return toolcore.Fail("Invalid arguments: %v", err)
	}
	if args.TargetPassageName == "" {
		return toolcore.Fail("targetPassageName is required")
	}

	s, err := tc.CurrentStory()
	if err != nil {
		return toolcore.Fail("Story not found: %s", tc.StoryID)
	}

	incoming := s.IncomingPassages(args.TargetPassageName)
	passages := make([]passagePayload, 0, len(incoming))
	for _, p := range incoming {
		passages = append(passages, passagePayload{ID: p.ID, Name: p.Name, Text: p.Text, Tags: p.Tags})
	}

	return toolcore.OK(
		fmt.Sprintf("Found %d passages linking to %q", len(passages), args.TargetPassageName),
		map[string]interface{}{"passages": passages},
	)
}
