package memory

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// ChatMessages projects the turn into flat OpenAI chat-completion messages.
//
// A plain turn becomes a single {role, content} message. A tool-call turn
// becomes one assistant message listing every call, followed by exactly one
// tool message per call carrying the matching ToolCallID, in call order:
// 1+len(ToolChain) messages total. The projection is lossless and
// order-preserving; correlation ids always survive.
//
// Each call returns a freshly allocated slice.
func (it *MemoryItem) ChatMessages() []openai.ChatCompletionMessage {
	if len(it.ToolChain) == 0 {
		return []openai.ChatCompletionMessage{{
			Role:    string(it.Role),
			Content: it.Content,
		}}
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 1+len(it.ToolChain))

	calls := make([]openai.ToolCall, 0, len(it.ToolChain))
	for _, t := range it.ToolChain {
		calls = append(calls, openai.ToolCall{
			ID:   t.ToolID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      t.ToolName,
				Arguments: t.ArgumentsJSON(),
			},
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   it.Content,
		ToolCalls: calls,
	})

	for _, t := range it.ToolChain {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    t.ToolOutput,
			ToolCallID: t.ToolID,
		})
	}
	return msgs
}

// AnthropicMessages projects the turn into Anthropic message params. A
// tool-call turn becomes an assistant message carrying tool_use blocks plus
// one following user message carrying the tool_result blocks, ids matching
// in call order.
//
// System turns project as user text here; the Messages API carries the
// system prompt on the request, not in the message list, so stores exclude
// it from this projection.
func (it *MemoryItem) AnthropicMessages() []anthropic.MessageParam {
	if len(it.ToolChain) == 0 {
		block := anthropic.NewTextBlock(it.Content)
		if it.Role == RoleAssistant {
			return []anthropic.MessageParam{anthropic.NewAssistantMessage(block)}
		}
		return []anthropic.MessageParam{anthropic.NewUserMessage(block)}
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(it.ToolChain))
	if it.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(it.Content))
	}
	for _, t := range it.ToolChain {
		args := t.ArgumentsJSON()
		if args == "" {
			args = "{}"
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(t.ToolID, json.RawMessage(args), t.ToolName))
	}

	results := make([]anthropic.ContentBlockParamUnion, 0, len(it.ToolChain))
	for _, t := range it.ToolChain {
		results = append(results, anthropic.NewToolResultBlock(t.ToolID, t.ToolOutput, false))
	}

	return []anthropic.MessageParam{
		anthropic.NewAssistantMessage(blocks...),
		anthropic.NewUserMessage(results...),
	}
}
