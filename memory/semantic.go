package memory

import (
	"regexp"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// Semantic keeps the most recent RecentWindow turns unconditionally and
// surfaces older turns by TF-IDF relevance to the current query.
//
// Eviction never reaches into the recency window: when the window alone
// exceeds MaxTokens, enforcement stops there and the token budget is
// knowingly exceeded. Always keeping recent context is this policy's
// contract.
type Semantic struct {
	buffer
	recentWindow int
	topK         int

	tfCache   map[string]map[string]int // item id -> cached term frequencies
	docFreq   map[string]int
	totalDocs int

	// lastQuery is the most recent user turn's text, the fallback query
	// when Retrieve is called without one.
	lastQuery string
}

// NewSemantic builds a Semantic store. Use New for name-based construction.
func NewSemantic(cfg Config) *Semantic {
	cfg = cfg.withDefaults()
	return &Semantic{
		buffer:       newBuffer(cfg),
		recentWindow: cfg.RecentWindow,
		topK:         cfg.SemanticTopK,
		tfCache:      make(map[string]map[string]int),
		docFreq:      make(map[string]int),
	}
}

var termPattern = regexp.MustCompile(`[a-zA-Z]+`)

// terms lowercases text and keeps alphabetic tokens longer than two
// characters. Numbers and punctuation carry no weight.
func terms(text string) []string {
	words := termPattern.FindAllString(strings.ToLower(text), -1)
	out := words[:0]
	for _, w := range words {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

func termFrequency(text string) map[string]int {
	tf := make(map[string]int)
	for _, w := range terms(text) {
		tf[w]++
	}
	return tf
}

// Add appends the turn, indexes its terms and enforces the budget. User
// turns with text become the fallback query for later retrieval.
func (s *Semantic) Add(item *MemoryItem) {
	s.append(item)

	tf := termFrequency(item.DisplayContent())
	s.tfCache[item.ID] = tf
	for term := range tf {
		s.docFreq[term]++
	}
	s.totalDocs++

	if item.Role == RoleUser && item.Content != "" {
		s.lastQuery = item.Content
	}

	s.enforce()
}

// score accumulates queryTF[t] * docTF[t] * (1 + totalDocs/docFreq[t]) over
// shared terms. No shared terms scores zero.
func (s *Semantic) score(queryTF, docTF map[string]int) float64 {
	var total float64
	for term, qtf := range queryTF {
		dtf, ok := docTF[term]
		if !ok {
			continue
		}
		idf := 1.0
		if df := s.docFreq[term]; df > 0 {
			idf = 1.0 + float64(s.totalDocs)/float64(df)
		}
		total += float64(qtf) * float64(dtf) * idf
	}
	return total
}

// enforce evicts the oldest turn beyond the recency window while over
// budget. Terminates once only the window remains, budget met or not.
func (s *Semantic) enforce() {
	for s.overBudget() && len(s.items) > s.recentWindow {
		removed := s.removeAt(0)
		delete(s.tfCache, removed.ID)
	}
}

// Retrieve returns the recency window plus the topK older turns with a
// strictly positive relevance score against the query, re-sorted into
// insertion order. An empty query falls back to the last user turn; with no
// usable query or no older turns, everything is returned.
func (s *Semantic) Retrieve(query string, topK int) []*MemoryItem {
	if topK <= 0 {
		topK = s.topK
	}
	if query == "" {
		query = s.lastQuery
	}

	if len(s.items) <= s.recentWindow {
		out := make([]*MemoryItem, len(s.items))
		copy(out, s.items)
		return out
	}

	cut := len(s.items) - s.recentWindow
	older := s.items[:cut]
	if query == "" {
		out := make([]*MemoryItem, len(s.items))
		copy(out, s.items)
		return out
	}

	queryTF := termFrequency(query)

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(older))
	for _, it := range older {
		ranked = append(ranked, scored{id: it.ID, score: s.score(queryTF, s.tfCache[it.ID])})
	}
	// Stable sort keeps chronological order among equal scores.
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	relevant := make(map[string]bool, topK)
	for _, r := range ranked {
		if len(relevant) >= topK || r.score <= 0 {
			break
		}
		relevant[r.id] = true
	}

	out := make([]*MemoryItem, 0, len(relevant)+s.recentWindow)
	for i, it := range s.items {
		if i >= cut || relevant[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// ChatMessages projects the default retrieval into flat OpenAI messages,
// system prompt first.
func (s *Semantic) ChatMessages() []openai.ChatCompletionMessage {
	return s.chatMessages(s.Retrieve("", 0))
}

// AnthropicMessages projects the default retrieval into Anthropic message
// params.
func (s *Semantic) AnthropicMessages() []anthropic.MessageParam {
	return s.anthropicMessages(s.Retrieve("", 0))
}

// PromptContext renders the retrieval for query as "Role: content" lines.
func (s *Semantic) PromptContext(query string) string {
	return s.promptContext(s.Retrieve(query, 0))
}

// Clear resets storage, the token total and the term indexes. The system
// prompt survives.
func (s *Semantic) Clear() {
	s.clear()
	s.tfCache = make(map[string]map[string]int)
	s.docFreq = make(map[string]int)
	s.totalDocs = 0
	s.lastQuery = ""
}
