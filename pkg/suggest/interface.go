// Package suggest is the core, turning token streams into ordered multi-word suggestions and indexing them for prefix lookups.
package suggest

import "iter"

// IGenerator defines the interface for suggestion generators
type IGenerator interface {
	// Build consumes tokens once and returns the distinct suggestions in first-seen order
	Build(tokens iter.Seq2[string, error], stopWords *StopWords) ([]string, error)

	// BuildSlice is Build over an in-memory token slice
	BuildSlice(tokens []string, stopWords *StopWords) ([]string, error)

	// MaxCombinedTokens returns the longest phrase, in tokens, the generator emits
	MaxCombinedTokens() int
}

// ICompleter defines the interface for phrase completion over indexed suggestions
type ICompleter interface {
	// Add indexes suggestions and returns how many were new
	Add(suggestions ...string) int

	// Complete returns indexed phrases for a given prefix with a limit
	Complete(prefix string, limit int) []string

	// Stats returns statistics about the index
	Stats() map[string]int
}
