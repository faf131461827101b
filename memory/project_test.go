package memory_test

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Zhang-Xiaojing7/SmartMem-Purple-Agent/memory"
)

func TestChatMessages_PlainTurn(t *testing.T) {
	it := memory.NewUserItem("hi")

	msgs := it.ChatMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleUser {
		t.Errorf("expected role %q, got %q", openai.ChatMessageRoleUser, msgs[0].Role)
	}
	if msgs[0].Content != "hi" {
		t.Errorf("expected content %q, got %q", "hi", msgs[0].Content)
	}
	if len(msgs[0].ToolCalls) != 0 {
		t.Errorf("plain turn should carry no tool calls, got %d", len(msgs[0].ToolCalls))
	}
}

func TestChatMessages_ToolRound(t *testing.T) {
	it := memory.NewToolCallItem("adjusting the devices",
		memory.ToolInteraction{
			ToolName:   "interact_with_environment",
			ToolID:     "call_1",
			ToolInput:  map[string]any{"device_id": "ac", "action": "update", "value": "on"},
			ToolOutput: "ac is now on",
		},
		memory.ToolInteraction{
			ToolName:   "interact_with_environment",
			ToolID:     "call_2",
			ToolInput:  map[string]any{"device_id": "fan_speed", "action": "read"},
			ToolOutput: "fan speed is low",
		},
	)

	msgs := it.ChatMessages()
	if len(msgs) != 3 {
		t.Fatalf("expected 1+2 messages, got %d", len(msgs))
	}

	head := msgs[0]
	if head.Role != openai.ChatMessageRoleAssistant {
		t.Errorf("expected assistant head, got role %q", head.Role)
	}
	if head.Content != "adjusting the devices" {
		t.Errorf("assistant content lost: %q", head.Content)
	}
	if len(head.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls, got %d", len(head.ToolCalls))
	}

	for i, wantID := range []string{"call_1", "call_2"} {
		if head.ToolCalls[i].ID != wantID {
			t.Errorf("call %d: expected id %q, got %q", i, wantID, head.ToolCalls[i].ID)
		}
		result := msgs[1+i]
		if result.Role != openai.ChatMessageRoleTool {
			t.Errorf("result %d: expected tool role, got %q", i, result.Role)
		}
		if result.ToolCallID != wantID {
			t.Errorf("result %d: correlation id mismatch: expected %q, got %q", i, wantID, result.ToolCallID)
		}
	}
	if msgs[1].Content != "ac is now on" || msgs[2].Content != "fan speed is low" {
		t.Errorf("result outputs reordered or lost: %q, %q", msgs[1].Content, msgs[2].Content)
	}
}

func TestChatMessages_ArgumentsAreJSON(t *testing.T) {
	it := memory.NewToolCallItem("",
		memory.ToolInteraction{
			ToolName:  "interact_with_environment",
			ToolID:    "call_1",
			ToolInput: map[string]any{"device_id": "bedroom_light"},
		},
	)

	args := it.ChatMessages()[0].ToolCalls[0].Function.Arguments
	if args != `{"device_id":"bedroom_light"}` {
		t.Errorf("unexpected arguments encoding: %s", args)
	}

	// Opaque string inputs pass through untouched.
	it = memory.NewToolCallItem("",
		memory.ToolInteraction{ToolName: "echo", ToolID: "call_2", ToolInput: "raw text"},
	)
	args = it.ChatMessages()[0].ToolCalls[0].Function.Arguments
	if args != "raw text" {
		t.Errorf("string input should pass through, got %q", args)
	}
}

func TestAnthropicMessages_PlainTurn(t *testing.T) {
	user := memory.NewUserItem("hello")
	msgs := user.AnthropicMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message param, got %d", len(msgs))
	}
	if string(msgs[0].Role) != "user" {
		t.Errorf("expected user role, got %q", msgs[0].Role)
	}

	assistant := memory.NewAssistantItem("done")
	msgs = assistant.AnthropicMessages()
	if len(msgs) != 1 || string(msgs[0].Role) != "assistant" {
		t.Fatalf("assistant turn projected wrong: %+v", msgs)
	}
}

func TestAnthropicMessages_ToolRound(t *testing.T) {
	it := memory.NewToolCallItem("checking",
		memory.ToolInteraction{
			ToolName:   "interact_with_environment",
			ToolID:     "toolu_1",
			ToolInput:  map[string]any{"device_id": "ac", "action": "read"},
			ToolOutput: "24",
		},
		memory.ToolInteraction{
			ToolName:   "interact_with_environment",
			ToolID:     "toolu_2",
			ToolInput:  map[string]any{"device_id": "fan_speed", "action": "read"},
			ToolOutput: "low",
		},
	)

	msgs := it.AnthropicMessages()
	if len(msgs) != 2 {
		t.Fatalf("tool round should project to assistant + results, got %d params", len(msgs))
	}
	if string(msgs[0].Role) != "assistant" {
		t.Errorf("expected assistant first, got %q", msgs[0].Role)
	}
	if string(msgs[1].Role) != "user" {
		t.Errorf("tool results ride on a user turn, got %q", msgs[1].Role)
	}
	// Text block + one tool_use per call.
	if len(msgs[0].Content) != 3 {
		t.Errorf("expected 3 content blocks on the assistant turn, got %d", len(msgs[0].Content))
	}
	if len(msgs[1].Content) != 2 {
		t.Errorf("expected 2 tool_result blocks, got %d", len(msgs[1].Content))
	}
}

func TestDisplayContent(t *testing.T) {
	it := memory.NewToolCallItem("turning things on",
		memory.ToolInteraction{
			ToolName:   "interact_with_environment",
			ToolID:     "call_1",
			ToolInput:  "ac",
			ToolOutput: "ok",
		},
	)

	want := "[Call: interact_with_environment(ac)] -> [Result: ok]\nturning things on"
	if got := it.DisplayContent(); got != want {
		t.Errorf("display content mismatch:\n got: %q\nwant: %q", got, want)
	}

	if got := memory.NewUserItem("just text").DisplayContent(); got != "just text" {
		t.Errorf("plain turn display content: %q", got)
	}
}

func TestItemIDsAreOrdered(t *testing.T) {
	prev := memory.NewUserItem("a")
	for i := 0; i < 50; i++ {
		next := memory.NewUserItem("b")
		if next.ID <= prev.ID {
			t.Fatalf("ids not monotonically orderable: %q then %q", prev.ID, next.ID)
		}
		prev = next
	}
}
