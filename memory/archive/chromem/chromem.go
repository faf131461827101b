// Package chromem provides a chromem-go backed long-term archive for
// evicted turns. chromem-go is a pure Go, embedded vector database, so the
// archive needs no external service.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/Zhang-Xiaojing7/SmartMem-Purple-Agent/memory"
)

const defaultRecallLimit = 5

// Archive stores evicted turns in an embedded chromem-go collection and
// recalls them by vector similarity. It implements memory.Archive.
type Archive struct {
	db       *chromem.DB
	col      *chromem.Collection
	embedder memory.Embedder
}

// New creates an archive over a fresh in-memory chromem collection, using
// embedder for both stored turns and recall queries.
func New(embedder memory.Embedder) (*Archive, error) {
	db := chromem.NewDB()
	col, err := db.CreateCollection(
		"evicted_turns",
		nil, // no custom embedding func, we provide embeddings
		nil, // default cosine distance
	)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Archive{db: db, col: col, embedder: embedder}, nil
}

// Store embeds the turn's display content and adds it as a document. Turns
// with no display text are skipped.
func (a *Archive) Store(ctx context.Context, item *memory.MemoryItem) error {
	content := item.DisplayContent()
	if content == "" {
		return nil
	}

	emb, err := a.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed item: %w", err)
	}

	doc := chromem.Document{
		ID:        item.ID,
		Content:   content,
		Embedding: emb,
		Metadata: map[string]string{
			"role":        string(item.Role),
			"timestamp":   item.Timestamp.Format(time.RFC3339Nano),
			"token_count": strconv.Itoa(item.TokenCount),
		},
	}
	if err := a.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	log.Printf("[ARCHIVE] Stored evicted item %s (%d tokens)", item.ID, item.TokenCount)
	return nil
}

// Recall returns up to limit archived turns nearest to the query,
// reconstructed from document metadata and ordered by similarity.
func (a *Archive) Recall(ctx context.Context, query string, limit int) ([]*memory.MemoryItem, error) {
	if limit <= 0 {
		limit = defaultRecallLimit
	}

	emb, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// chromem rejects nResults above the collection size; shrink until it
	// accepts or the collection turns out to be empty.
	var results []chromem.Result
	for n := limit; n >= 1; n-- {
		results, err = a.col.QueryEmbedding(ctx, emb, n, nil, nil)
		if err == nil {
			break
		}
		if insufficientDocs(err) {
			if n == 1 {
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("query archive: %w", err)
	}

	items := make([]*memory.MemoryItem, 0, len(results))
	for _, res := range results {
		items = append(items, resultToItem(res))
	}
	return items, nil
}

// Close releases resources. chromem keeps everything in memory, so there is
// nothing to release.
func (a *Archive) Close() error { return nil }

func resultToItem(res chromem.Result) *memory.MemoryItem {
	ts, _ := time.Parse(time.RFC3339Nano, res.Metadata["timestamp"])
	tokens, _ := strconv.Atoi(res.Metadata["token_count"])
	return &memory.MemoryItem{
		ID:         res.ID,
		Timestamp:  ts,
		Role:       memory.Role(res.Metadata["role"]),
		Content:    res.Content,
		TokenCount: tokens,
	}
}

// insufficientDocs detects chromem's complaint about nResults exceeding the
// number of stored documents.
func insufficientDocs(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
