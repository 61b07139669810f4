package tool_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennwright/inkwell/internal/tool"
	_ "github.com/pennwright/inkwell/internal/tool/builtin"
)

func TestDispatch_UnknownTool(t *testing.T) {
	d := tool.NewDispatcher(tool.NewRegistry())

	result := d.Dispatch(context.Background(), tool.Context{}, "frobnicate", json.RawMessage(`{}`))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Unknown tool")
	assert.Nil(t, result.Data)
}

func TestDispatch_ValidationFailure(t *testing.T) {
	d := tool.NewDispatcher(tool.NewRegistry())

	result := d.Dispatch(context.Background(), tool.Context{}, "get_passage_by_name", json.RawMessage(`{}`))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Invalid arguments")
}

func TestDispatch_MalformedJSON(t *testing.T) {
	d := tool.NewDispatcher(tool.NewRegistry())

	result := d.Dispatch(context.Background(), tool.Context{}, "get_passage_by_name", json.RawMessage(`{not json`))
	assert.False(t, result.Success)
}

func TestValidateInput(t *testing.T) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"tags": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"name"},
	}

	require.NoError(t, tool.ValidateInput(schema, json.RawMessage(`{"name":"Start"}`)))
	require.NoError(t, tool.ValidateInput(schema, json.RawMessage(`{"name":"Start","tags":["a","b"]}`)))
	require.NoError(t, tool.ValidateInput(schema, json.RawMessage(`{"name":"Start","extra":true}`)))

	assert.Error(t, tool.ValidateInput(schema, json.RawMessage(`{}`)))
	assert.Error(t, tool.ValidateInput(schema, json.RawMessage(`{"name":42}`)))
	assert.Error(t, tool.ValidateInput(schema, json.RawMessage(`{"name":"x","tags":[1]}`)))
}

func TestValidateInput_EmptyInput(t *testing.T) {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
	require.NoError(t, tool.ValidateInput(schema, nil))
}

func TestDescriptors_Sorted(t *testing.T) {
	defs := tool.NewDispatcher(tool.NewRegistry()).Descriptors()
	require.Len(t, defs, 9)

	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Name, defs[i].Name)
	}
	for _, def := range defs {
		assert.NotEmpty(t, def.Description)
		assert.NotNil(t, def.Parameters)
	}
}
