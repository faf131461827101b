package memory

import (
	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// FIFO evicts the oldest turns first and ignores retrieval queries: the
// model always sees the full surviving window.
type FIFO struct {
	buffer
}

// NewFIFO builds a FIFO store. Use New for name-based construction.
func NewFIFO(cfg Config) *FIFO {
	return &FIFO{buffer: newBuffer(cfg.withDefaults())}
}

// Add appends the turn and enforces the budget before returning.
func (f *FIFO) Add(item *MemoryItem) {
	f.append(item)
	f.enforce()
}

// enforce drops oldest-first while over budget. The last remaining turn is
// always kept even when its own cost exceeds MaxTokens, so every Add leaves
// either a within-budget window or a single oversized item.
func (f *FIFO) enforce() {
	for f.overBudget() && len(f.items) > 1 {
		f.removeAt(0)
	}
}

// Retrieve ignores query and topK and returns the current window in
// insertion order.
func (f *FIFO) Retrieve(query string, topK int) []*MemoryItem {
	out := make([]*MemoryItem, len(f.items))
	copy(out, f.items)
	return out
}

// ChatMessages projects the window into flat OpenAI messages, system
// prompt first.
func (f *FIFO) ChatMessages() []openai.ChatCompletionMessage {
	return f.chatMessages(f.Retrieve("", 0))
}

// AnthropicMessages projects the window into Anthropic message params.
func (f *FIFO) AnthropicMessages() []anthropic.MessageParam {
	return f.anthropicMessages(f.Retrieve("", 0))
}

// PromptContext renders the window as "Role: content" lines.
func (f *FIFO) PromptContext(query string) string {
	return f.promptContext(f.Retrieve(query, 0))
}

// Clear resets storage and the token total. The system prompt survives.
func (f *FIFO) Clear() {
	f.clear()
}
