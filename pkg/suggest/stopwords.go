package suggest

import (
	"slices"

	"github.com/bastiangx/phraseserve/internal/utils"
	"github.com/tchap/go-patricia/v2/patricia"
)

// StopWords is an immutable, case-insensitive set of words that never appear in a suggestion.
// Words are kept lower-cased in a patricia trie, so lookups are safe from many goroutines.
type StopWords struct {
	trie     *patricia.Trie
	count    int
	hasEmpty bool
}

// NewStopWords builds a set from words, ignoring case and repeats
func NewStopWords(words ...string) *StopWords {
	sw := &StopWords{trie: patricia.NewTrie()}
	for _, w := range words {
		sw.insert(w)
	}
	return sw
}

func (sw *StopWords) insert(word string) {
	key := utils.NormalizeWord(word)
	// the trie root cannot carry an item
	if key == "" {
		if !sw.hasEmpty {
			sw.hasEmpty = true
			sw.count++
		}
		return
	}
	if sw.trie.Insert(patricia.Prefix(key), struct{}{}) {
		sw.count++
	}
}

// Contains checks token against the set case-insensitively
func (sw *StopWords) Contains(token string) bool {
	if sw == nil {
		return false
	}
	key := utils.NormalizeWord(token)
	if key == "" {
		return sw.hasEmpty
	}
	return sw.trie.Match(patricia.Prefix(key))
}

// Len returns the number of distinct stop words
func (sw *StopWords) Len() int {
	if sw == nil {
		return 0
	}
	return sw.count
}

// Words returns the lower-cased stop words in lexicographic order
func (sw *StopWords) Words() []string {
	if sw == nil {
		return nil
	}
	words := make([]string, 0, sw.count)
	if sw.hasEmpty {
		words = append(words, "")
	}
	sw.trie.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(p))
		return nil
	})
	slices.Sort(words)
	return words
}

// Merge returns a new set holding the words of both sets.
// Neither input is modified; a nil other yields a copy of sw.
func (sw *StopWords) Merge(other *StopWords) *StopWords {
	merged := NewStopWords(sw.Words()...)
	for _, w := range other.Words() {
		merged.insert(w)
	}
	return merged
}
