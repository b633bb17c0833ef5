package dictionary

import "github.com/bastiangx/phraseserve/pkg/suggest"

var defaultEnglish = []string{
	"a", "an", "the", "and", "or", "but",
	"to", "in", "of", "on", "for", "with", "as", "at", "by", "from",
	"is", "are", "was", "were", "be", "been", "being",
	"this", "that", "these", "those", "it", "its",
	"i", "me", "my", "we", "our", "you", "your",
	"he", "him", "his", "she", "her", "they", "them", "their",
	"do", "does", "did", "have", "has", "had",
	"not", "no", "nor", "so", "too", "very",
	"can", "could", "should", "would", "may", "might", "must", "will",
	"if", "then", "than", "because", "while", "when", "where",
}

// DefaultStopWords returns the built-in English stop words
func DefaultStopWords() *suggest.StopWords {
	return suggest.NewStopWords(defaultEnglish...)
}
