// Package memory provides bounded conversational memory for tool-calling
// LLM agents.
//
// A Store holds turn records (user/assistant/system messages and tool-call
// rounds), enforces a token and item budget after every append, and
// reconstructs the retained history as a flat chat-message sequence ready
// for a chat-completion call.
//
// Three eviction policies are provided, selected by Config.Policy:
//   - fifo: drop the oldest turns first
//   - lru: drop the least recently accessed turns first
//   - semantic: always keep a recency window, surface older turns by
//     TF-IDF relevance to the current query
//
// Stores are single-context: one conversation owns exactly one Store and
// callers serialize access per context. Concurrent conversations get
// separate Store instances, not shared locking.
//
// Evicted turns can optionally be handed to an Archive (see archive/chromem)
// for long-term recall outside the live window.
package memory
