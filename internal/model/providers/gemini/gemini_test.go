package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennwright/inkwell/internal/model/contract"

	"google.golang.org/genai"
)

func TestBuildContents_FunctionResponseUsesFunctionName(t *testing.T) {
	system, contents := buildContents([]contract.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "look around"},
		{Role: "assistant", ToolCalls: []*contract.ToolCall{
			{ID: "call-7", Name: "get_story_overview", Input: `{}`},
		}},
		{Role: "tool", ToolCallID: "call-7", ToolName: "get_story_overview", Content: `{"success":true}`},
	})

	assert.Equal(t, "be brief", system)
	require.Len(t, contents, 3)

	fr := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "call-7", fr.ID)
	assert.Equal(t, "get_story_overview", fr.Name)
}

func TestBuildContents_ToolNameFallsBackToCallID(t *testing.T) {
	_, contents := buildContents([]contract.Message{
		{Role: "tool", ToolCallID: "get_current_passage", Content: `{"success":true}`},
	})

	require.Len(t, contents, 1)
	fr := contents[0].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "get_current_passage", fr.Name)
}

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, contract.FinishStop, mapFinishReason(genai.FinishReasonStop))
	assert.Equal(t, contract.FinishLength, mapFinishReason(genai.FinishReasonMaxTokens))
	assert.Equal(t, contract.FinishContentFilter, mapFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, contract.FinishContentFilter, mapFinishReason(genai.FinishReasonRecitation))
	assert.Equal(t, contract.FinishContentFilter, mapFinishReason(genai.FinishReasonBlocklist))
	assert.Equal(t, contract.FinishUnknown, mapFinishReason(genai.FinishReasonUnspecified))
}

func TestWrapAPIError(t *testing.T) {
	wrapped := wrapAPIError(genai.APIError{Code: 429, Message: "quota exceeded"})

	var pe *contract.ProviderError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "gemini", pe.Provider)
	assert.Equal(t, 429, pe.StatusCode)
	assert.Equal(t, "quota exceeded", pe.Message)
}

func TestProviderError_CategorizesAsProviderFailure(t *testing.T) {
	wrapped := wrapAPIError(errors.New("network down"))
	pe, ok := contract.AsProviderError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "gemini", pe.Provider)
}
