package suggest

import (
	"iter"
	"strings"

	"github.com/bastiangx/phraseserve/internal/utils"
	"github.com/charmbracelet/log"
)

// DefaultMaxCombinedTokens is the longest phrase, in tokens, a suggestion may hold
const DefaultMaxCombinedTokens = 3

// Generator turns a token stream into distinct suggestions.
// It holds configuration only, so a single Generator can serve concurrent calls.
type Generator struct {
	maxCombined int
}

var defaultGenerator = NewGenerator(DefaultMaxCombinedTokens)

// NewGenerator creates a generator emitting phrases of up to maxCombined tokens.
// Values below 1 fall back to DefaultMaxCombinedTokens.
func NewGenerator(maxCombined int) *Generator {
	if maxCombined < 1 {
		maxCombined = DefaultMaxCombinedTokens
	}
	return &Generator{maxCombined: maxCombined}
}

// MaxCombinedTokens returns the phrase length cap
func (g *Generator) MaxCombinedTokens() int {
	return g.maxCombined
}

// IsStopping reports whether token separates runs instead of joining one:
// it matches a stop word ignoring case, or it is a single character.
func IsStopping(token string, stopWords *StopWords) bool {
	return stopWords.Contains(token) || utils.IsSingleChar(token)
}

// Build consumes tokens once, front to back, and returns every phrase of 1 to
// MaxCombinedTokens consecutive non-stopping tokens. Phrases never cross a
// stopping token. Each text appears once, in the order it was first produced.
//
// An error yielded by tokens is returned as is, with no partial result.
func (g *Generator) Build(tokens iter.Seq2[string, error], stopWords *StopWords) ([]string, error) {
	if stopWords == nil {
		return nil, &InvalidInputError{Field: "stopWords"}
	}

	result := utils.NewOrderedSet(0)
	var run []string
	runs := 0

	for token, err := range tokens {
		if err != nil {
			return nil, err
		}
		if !IsStopping(token, stopWords) {
			run = append(run, token)
			continue
		}
		if len(run) > 0 {
			g.emitRun(run, result)
			runs++
			run = run[:0]
		}
	}
	if len(run) > 0 {
		g.emitRun(run, result)
		runs++
	}

	log.Debugf("Built %d suggestions from %d runs", result.Len(), runs)
	return result.Items(), nil
}

// BuildSlice is Build over an in-memory token slice
func (g *Generator) BuildSlice(tokens []string, stopWords *StopWords) ([]string, error) {
	return g.Build(Tokens(tokens...), stopWords)
}

// emitRun adds every window of a closed run: for each start offset left to
// right, windows of increasing length up to the cap or the run's end.
func (g *Generator) emitRun(run []string, result *utils.OrderedSet) {
	for start := range run {
		end := min(start+g.maxCombined, len(run))
		for stop := start + 1; stop <= end; stop++ {
			result.Add(strings.Join(run[start:stop], " "))
		}
	}
}

// Build runs the default generator (DefaultMaxCombinedTokens)
func Build(tokens iter.Seq2[string, error], stopWords *StopWords) ([]string, error) {
	return defaultGenerator.Build(tokens, stopWords)
}

// BuildSlice runs the default generator over a token slice
func BuildSlice(tokens []string, stopWords *StopWords) ([]string, error) {
	return defaultGenerator.BuildSlice(tokens, stopWords)
}
