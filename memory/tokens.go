package memory

import (
	"log"

	"github.com/tiktoken-go/tokenizer"
)

// EstimateTokens is the default token estimator: one token per four
// characters of display text, rounded down. Cheap, deterministic, and close
// enough for budget enforcement; use TiktokenCounter when exact counts
// matter.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TiktokenCounter returns a TokenCounter backed by a tiktoken encoding
// (for example tokenizer.Cl100kBase). Text the codec cannot encode falls
// back to EstimateTokens, so the returned counter itself never fails.
func TiktokenCounter(enc tokenizer.Encoding) (TokenCounter, error) {
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, err
	}
	return func(text string) int {
		ids, _, err := codec.Encode(text)
		if err != nil {
			log.Printf("[MEMORY] tiktoken encode failed, using heuristic: %v", err)
			return EstimateTokens(text)
		}
		return len(ids)
	}, nil
}
