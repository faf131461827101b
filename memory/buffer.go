package memory

import (
	"context"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// buffer is the storage core every policy embeds: the chronological item
// slice, the running token total, the budgets, the estimator and the
// system-prompt slot. Policies implement Add as append followed by their
// own enforce pass; those two steps are the whole write path and never
// interleave with another Add.
type buffer struct {
	items       []*MemoryItem
	totalTokens int

	maxTokens int
	maxItems  int

	counter      TokenCounter
	systemPrompt *MemoryItem
	archive      Archive
}

func newBuffer(cfg Config) buffer {
	return buffer{
		maxTokens: cfg.MaxTokens,
		maxItems:  cfg.MaxItems,
		counter:   cfg.TokenCounter,
		archive:   cfg.Archive,
	}
}

// append stores the item, estimating its token cost once when unset. A
// preset TokenCount (say, from a model usage report) is taken as-is.
func (b *buffer) append(item *MemoryItem) {
	if item.TokenCount == 0 {
		item.TokenCount = b.counter(item.DisplayContent())
	}
	b.items = append(b.items, item)
	b.totalTokens += item.TokenCount
}

// overBudget reports whether the window exceeds either budget.
func (b *buffer) overBudget() bool {
	return b.totalTokens > b.maxTokens || len(b.items) > b.maxItems
}

// removeAt drops the item at index i, settles the token total and hands the
// item to the archive when one is configured. Archive failures are logged
// and swallowed; eviction must not fail.
func (b *buffer) removeAt(i int) *MemoryItem {
	removed := b.items[i]
	b.items = append(b.items[:i], b.items[i+1:]...)
	b.totalTokens -= removed.TokenCount
	log.Printf("[MEMORY] Pruned item %s, freed %d tokens (total=%d)",
		removed.ID, removed.TokenCount, b.totalTokens)

	if b.archive != nil {
		if err := b.archive.Store(context.Background(), removed); err != nil {
			log.Printf("[MEMORY] Failed to archive item %s: %v", removed.ID, err)
		}
	}
	return removed
}

// SetSystemPrompt installs the immutable system turn.
func (b *buffer) SetSystemPrompt(content string) {
	b.systemPrompt = NewSystemItem(content)
}

// SystemPrompt returns the installed system turn, or nil.
func (b *buffer) SystemPrompt() *MemoryItem { return b.systemPrompt }

// Len reports the number of stored turns.
func (b *buffer) Len() int { return len(b.items) }

// TotalTokens reports the running token total.
func (b *buffer) TotalTokens() int { return b.totalTokens }

// PendingToolCalls returns copies of the most recent turn's tool chain.
func (b *buffer) PendingToolCalls() []ToolInteraction {
	if len(b.items) == 0 {
		return nil
	}
	last := b.items[len(b.items)-1]
	if len(last.ToolChain) == 0 {
		return nil
	}
	out := make([]ToolInteraction, len(last.ToolChain))
	copy(out, last.ToolChain)
	return out
}

// ResolveToolCall writes a delivered result into the most recent turn's
// matching interaction. The lookup is by correlation id, never by position:
// result ordering is not guaranteed to match call-issue ordering.
func (b *buffer) ResolveToolCall(toolID, output string) error {
	var pending []string
	if n := len(b.items); n > 0 {
		last := b.items[n-1]
		for i := range last.ToolChain {
			if last.ToolChain[i].ToolID == toolID {
				last.ToolChain[i].ToolOutput = output
				return nil
			}
			if last.ToolChain[i].ToolOutput == "" {
				pending = append(pending, last.ToolChain[i].ToolID)
			}
		}
	}
	return &CorrelationError{ToolID: toolID, Pending: pending}
}

// chatMessages concatenates the projections of items, prepending the system
// prompt's projection when one is set.
func (b *buffer) chatMessages(items []*MemoryItem) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(items)+1)
	if b.systemPrompt != nil {
		msgs = append(msgs, b.systemPrompt.ChatMessages()...)
	}
	for _, it := range items {
		msgs = append(msgs, it.ChatMessages()...)
	}
	return msgs
}

// anthropicMessages concatenates the Anthropic projections of items. The
// system prompt is left out: the Messages API takes it on the request.
func (b *buffer) anthropicMessages(items []*MemoryItem) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(items))
	for _, it := range items {
		msgs = append(msgs, it.AnthropicMessages()...)
	}
	return msgs
}

// promptContext renders items as "Role: content" lines.
func (b *buffer) promptContext(items []*MemoryItem) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(capitalize(string(it.Role)))
		sb.WriteString(": ")
		sb.WriteString(it.DisplayContent())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// clear resets storage and the token total. Policy-private indexes reset in
// each policy's own Clear.
func (b *buffer) clear() {
	b.items = nil
	b.totalTokens = 0
}
