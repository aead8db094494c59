package tools

import (
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"

	"github.com/n0madic/go-codexclient/internal/types"
)

// toSDK converts a tool descriptor to the SDK union type.
func toSDK(tool types.Tool) (responses.ToolUnionParam, error) {
	switch tool.Type {
	case "function":
		params := tool.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		strict := false
		if tool.Strict != nil {
			strict = *tool.Strict
		}
		ft := responses.FunctionToolParam{
			Name:       tool.Name,
			Parameters: params,
			Strict:     openai.Bool(strict),
		}
		if tool.Description != "" {
			ft.Description = openai.String(tool.Description)
		}
		return responses.ToolUnionParam{OfFunction: &ft}, nil

	case "custom":
		ct := responses.CustomToolParam{
			Name: tool.Name,
		}
		if tool.Description != "" {
			ct.Description = openai.String(tool.Description)
		}
		return responses.ToolUnionParam{OfCustom: &ct}, nil

	case "web_search":
		return responses.ToolParamOfWebSearch(responses.WebSearchToolTypeWebSearch), nil

	default:
		return responses.ToolUnionParam{}, fmt.Errorf("%w: %q", ErrUnknownToolType, tool.Type)
	}
}
