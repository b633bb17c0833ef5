package suggest

import (
	"slices"
	"strings"
	"sync"

	"github.com/bastiangx/phraseserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index keeps built suggestions in a patricia trie for prefix lookups.
// Keys are lower-cased; the first casing seen for a key is the one returned.
type Index struct {
	trie  *patricia.Trie
	count int
	mu    sync.RWMutex
}

// NewIndex creates an empty phrase index
func NewIndex() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Add indexes suggestions, skipping empty and already known phrases.
// Returns the number of phrases that were new.
func (ix *Index) Add(suggestions ...string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	added := 0
	for _, s := range suggestions {
		key := utils.NormalizeWord(s)
		if key == "" {
			continue
		}
		if ix.trie.Insert(patricia.Prefix(key), s) {
			added++
		}
	}
	ix.count += added
	log.Debugf("Indexed %d new phrases (%d total)", added, ix.count)
	return added
}

// Complete returns indexed phrases starting with prefix, ignoring case.
// The prefix itself is skipped so the input isn't echoed back.
// Results are in lexicographic key order, capped at limit when limit > 0.
func (ix *Index) Complete(prefix string, limit int) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	lowerPrefix := utils.NormalizeWord(prefix)

	type entry struct {
		key  string
		text string
	}
	var entries []entry

	visit := func(p patricia.Prefix, item patricia.Item) error {
		key := string(p)
		if key == lowerPrefix {
			return nil
		}
		text, ok := item.(string)
		if !ok {
			log.Errorf("Unknown item type: %T for phrase %s", item, p)
			return nil
		}
		entries = append(entries, entry{key: key, text: text})
		return nil
	}

	var err error
	if lowerPrefix == "" {
		err = ix.trie.Visit(visit)
	} else {
		err = ix.trie.VisitSubtree(patricia.Prefix(lowerPrefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting index subtree: %v", err)
		return nil
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	results := make([]string, len(entries))
	for i, e := range entries {
		results[i] = e.text
	}
	return results
}

// Len returns the number of indexed phrases
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.count
}

// Reset drops every indexed phrase
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.trie = patricia.NewTrie()
	ix.count = 0
	log.Debug("Index reset")
}

// Stats returns statistics about the index
func (ix *Index) Stats() map[string]int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return map[string]int{
		"indexedPhrases": ix.count,
	}
}
