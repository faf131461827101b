package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// Policy names an eviction strategy.
type Policy string

const (
	PolicyFIFO     Policy = "fifo"
	PolicyLRU      Policy = "lru"
	PolicySemantic Policy = "semantic"
)

// ErrUnknownPolicy is returned by New for a policy name outside the
// registry. No partial store is created.
var ErrUnknownPolicy = errors.New("memory: unknown policy")

// CorrelationError reports a delivered tool result that could not be
// matched to any pending call in the most recent turn.
type CorrelationError struct {
	ToolID  string   // the correlation id the caller tried to resolve
	Pending []string // ids still awaiting results, empty when none are pending
}

func (e *CorrelationError) Error() string {
	if len(e.Pending) == 0 {
		return fmt.Sprintf("memory: no pending tool call %q (no calls awaiting results)", e.ToolID)
	}
	return fmt.Sprintf("memory: no pending tool call %q (pending: %v)", e.ToolID, e.Pending)
}

// TokenCounter estimates the token cost of a piece of display text.
// Counters never fail; inexact ones fall back to a heuristic internally.
type TokenCounter func(text string) int

// Store is the capability set every eviction policy implements. A Store
// belongs to exactly one conversational context and is not internally
// locked; callers serialize access per context.
type Store interface {
	// Add appends a turn record and immediately enforces the budget. The
	// item's TokenCount is estimated once here when unset; a preset count
	// bypasses estimation. Add never fails for structurally valid items.
	Add(item *MemoryItem)

	// Retrieve returns the stored items relevant to this call, always as a
	// subsequence of insertion order. FIFO and LRU ignore query and topK
	// and return the whole window; Semantic scores older items against the
	// query. Zero values select the policy defaults.
	Retrieve(query string, topK int) []*MemoryItem

	// ChatMessages projects the default retrieval into flat OpenAI chat
	// messages, with the system prompt's projection prepended when set.
	ChatMessages() []openai.ChatCompletionMessage

	// AnthropicMessages is ChatMessages for the Anthropic Messages API.
	// The system prompt is excluded: that API carries it on the request.
	AnthropicMessages() []anthropic.MessageParam

	// PromptContext renders the retrieval for query as "Role: content"
	// lines, for models without a structured chat format.
	PromptContext(query string) string

	// SetSystemPrompt installs the immutable system turn. It is held
	// outside storage and survives both eviction and Clear.
	SetSystemPrompt(content string)

	// SystemPrompt returns the installed system turn, or nil.
	SystemPrompt() *MemoryItem

	// PendingToolCalls returns copies of the most recent turn's tool
	// interactions, for callers correlating results by their own key
	// (for example a device id inside ToolInput) rather than by position.
	PendingToolCalls() []ToolInteraction

	// ResolveToolCall delivers a tool result into the most recent turn,
	// matched by correlation id. An unmatched id returns *CorrelationError
	// and leaves storage untouched.
	ResolveToolCall(toolID, output string) error

	// Clear resets storage, the token total and all policy-private
	// indexes. The system prompt, if set, is unaffected.
	Clear()

	// Len reports the number of stored turns.
	Len() int

	// TotalTokens reports the running token total of the window.
	TotalTokens() int
}

// Archive receives turns as they are evicted, for long-term recall outside
// the live window. See archive/chromem for the provided implementation.
type Archive interface {
	Store(ctx context.Context, item *MemoryItem) error
	Recall(ctx context.Context, query string, limit int) ([]*MemoryItem, error)
	Close() error
}

// Embedder converts text to vectors for archive backends.
// Implementations: embedder/mock (deterministic, for tests and local use);
// production deployments plug in an API-backed embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Config configures a Store. Zero values select the documented defaults.
type Config struct {
	Policy Policy // default PolicyFIFO

	MaxTokens int // token budget, default 2000
	MaxItems  int // item budget, default 100

	// RecentWindow and SemanticTopK apply to PolicySemantic only.
	RecentWindow int // always-kept tail, default 10
	SemanticTopK int // relevance results per retrieve, default 5

	// DisableRetrieveRefresh applies to PolicyLRU. By default every
	// Retrieve refreshes the access time of every stored item, which makes
	// eviction degenerate to insertion order under the common
	// retrieve-then-add pattern. Set true and use LRU.Touch to refresh
	// only the items actually consumed.
	DisableRetrieveRefresh bool

	// TokenCounter overrides the default chars/4 estimator
	// (EstimateTokens). See TiktokenCounter for exact counts.
	TokenCounter TokenCounter

	// Archive, when set, receives every evicted turn. Archive failures
	// are logged, never fatal.
	Archive Archive
}

func (c Config) withDefaults() Config {
	if c.Policy == "" {
		c.Policy = PolicyFIFO
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.MaxItems == 0 {
		c.MaxItems = 100
	}
	if c.RecentWindow == 0 {
		c.RecentWindow = 10
	}
	if c.SemanticTopK == 0 {
		c.SemanticTopK = 5
	}
	if c.TokenCounter == nil {
		c.TokenCounter = EstimateTokens
	}
	return c
}

// New builds a Store for the configured policy name. Unknown names fail
// with ErrUnknownPolicy.
func New(cfg Config) (Store, error) {
	cfg = cfg.withDefaults()
	switch cfg.Policy {
	case PolicyFIFO:
		return NewFIFO(cfg), nil
	case PolicyLRU:
		return NewLRU(cfg), nil
	case PolicySemantic:
		return NewSemantic(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s, %s, %s)",
			ErrUnknownPolicy, cfg.Policy, PolicyFIFO, PolicyLRU, PolicySemantic)
	}
}
