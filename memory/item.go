package memory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the speaker of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolInteraction is one tool invocation inside a turn: the call the
// assistant issued and, once delivered, its result. ToolOutput starts empty
// and is filled in place exactly once via Store.ResolveToolCall; results are
// never appended as separate turns.
type ToolInteraction struct {
	ToolName   string
	ToolID     string // correlation id, unique within the owning turn
	ToolInput  any    // structured arguments or an opaque string
	ToolOutput string
}

// String renders the interaction for display and token estimation.
func (t ToolInteraction) String() string {
	return fmt.Sprintf("[Call: %s(%s)] -> [Result: %s]", t.ToolName, t.ArgumentsJSON(), t.ToolOutput)
}

// ArgumentsJSON returns the call arguments as a JSON string. String inputs
// pass through untouched; structured inputs are marshaled.
func (t ToolInteraction) ArgumentsJSON() string {
	switch v := t.ToolInput.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.RawMessage:
		return string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// MemoryItem is one stored unit of conversation history.
type MemoryItem struct {
	// ID is unique and time-ordered (UUIDv7). Insertion order and id order
	// agree within a process, which eviction uses as its tie-break key.
	ID        string
	Timestamp time.Time
	Role      Role

	// Content is the turn's text. Empty for pure tool-call turns.
	Content string

	// ToolChain is non-empty only for assistant turns that issued tool
	// calls. The item owns its interactions exclusively; nothing else
	// holds a reference to them.
	ToolChain []ToolInteraction

	// RawData is an opaque caller payload. The store never interprets it.
	RawData any

	// TokenCount is the turn's token cost. Leave zero to have the store
	// estimate it once on first append; set it from a model response
	// (e.g. completion_tokens) to bypass estimation.
	TokenCount int
}

func newItemID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewItem builds a turn record with a fresh time-ordered id.
func NewItem(role Role, content string) *MemoryItem {
	return &MemoryItem{
		ID:        newItemID(),
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
	}
}

// NewSystemItem builds a system turn.
func NewSystemItem(content string) *MemoryItem { return NewItem(RoleSystem, content) }

// NewUserItem builds a user turn.
func NewUserItem(content string) *MemoryItem { return NewItem(RoleUser, content) }

// NewAssistantItem builds a plain assistant turn.
func NewAssistantItem(content string) *MemoryItem { return NewItem(RoleAssistant, content) }

// NewToolCallItem builds an assistant turn carrying pending tool calls.
// Outputs arrive later through Store.ResolveToolCall.
func NewToolCallItem(content string, calls ...ToolInteraction) *MemoryItem {
	it := NewItem(RoleAssistant, content)
	it.ToolChain = calls
	return it
}

// DisplayContent renders the turn as plain text: one line per tool
// interaction, then the body text.
func (it *MemoryItem) DisplayContent() string {
	parts := make([]string, 0, len(it.ToolChain)+1)
	for _, t := range it.ToolChain {
		parts = append(parts, t.String())
	}
	if it.Content != "" {
		parts = append(parts, it.Content)
	}
	return strings.Join(parts, "\n")
}
