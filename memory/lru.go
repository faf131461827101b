package memory

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// LRU evicts the least recently accessed turn first.
//
// Access times are set on append and, by default, refreshed for every
// stored turn on each Retrieve. Because the chat path retrieves the whole
// window, that default makes eviction degenerate to insertion order under
// the common retrieve-then-add pattern. Callers that consume subsets can
// set Config.DisableRetrieveRefresh and refresh consumed turns with Touch.
type LRU struct {
	buffer
	accessTimes map[string]time.Time
	refreshAll  bool
}

// NewLRU builds an LRU store. Use New for name-based construction.
func NewLRU(cfg Config) *LRU {
	cfg = cfg.withDefaults()
	return &LRU{
		buffer:      newBuffer(cfg),
		accessTimes: make(map[string]time.Time),
		refreshAll:  !cfg.DisableRetrieveRefresh,
	}
}

// Add appends the turn, records its access time and enforces the budget.
func (l *LRU) Add(item *MemoryItem) {
	l.append(item)
	l.accessTimes[item.ID] = time.Now()
	l.enforce()
}

// Touch refreshes the access time of a single stored turn. Unknown ids are
// ignored.
func (l *LRU) Touch(id string) {
	if _, ok := l.accessTimes[id]; ok {
		l.accessTimes[id] = time.Now()
	}
}

// enforce removes the minimum-access-time turn while over budget, keeping
// the last remaining turn regardless of its size. The scan runs in
// insertion order, so equal access times evict the earliest id.
func (l *LRU) enforce() {
	for l.overBudget() && len(l.items) > 1 {
		victim := 0
		for i := 1; i < len(l.items); i++ {
			if l.accessTimes[l.items[i].ID].Before(l.accessTimes[l.items[victim].ID]) {
				victim = i
			}
		}
		removed := l.removeAt(victim)
		delete(l.accessTimes, removed.ID)
	}
}

// Retrieve returns the whole window in insertion order, refreshing every
// turn's access time unless configured otherwise.
func (l *LRU) Retrieve(query string, topK int) []*MemoryItem {
	if l.refreshAll {
		now := time.Now()
		for _, it := range l.items {
			l.accessTimes[it.ID] = now
		}
	}
	out := make([]*MemoryItem, len(l.items))
	copy(out, l.items)
	return out
}

// ChatMessages projects the window into flat OpenAI messages, system
// prompt first. Counts as an access for every turn under the default
// refresh mode.
func (l *LRU) ChatMessages() []openai.ChatCompletionMessage {
	return l.chatMessages(l.Retrieve("", 0))
}

// AnthropicMessages projects the window into Anthropic message params.
func (l *LRU) AnthropicMessages() []anthropic.MessageParam {
	return l.anthropicMessages(l.Retrieve("", 0))
}

// PromptContext renders the window as "Role: content" lines.
func (l *LRU) PromptContext(query string) string {
	return l.promptContext(l.Retrieve(query, 0))
}

// Clear resets storage, the token total and the access-time index. The
// system prompt survives.
func (l *LRU) Clear() {
	l.clear()
	l.accessTimes = make(map[string]time.Time)
}
