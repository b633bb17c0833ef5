package server

import (
	"time"

	"github.com/bastiangx/phraseserve/pkg/config"
	"github.com/bastiangx/phraseserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Service is the transport independent part of the server.
// The IPC loop and the HTTP API both call into it.
type Service struct {
	generator *suggest.Generator
	stopWords *suggest.StopWords
	index     *suggest.Index
	cfg       config.ServerConfig
}

// NewService wires a generator, the base stop words and a shared index
func NewService(generator *suggest.Generator, stopWords *suggest.StopWords, index *suggest.Index, cfg config.ServerConfig) *Service {
	if generator == nil {
		generator = suggest.NewGenerator(suggest.DefaultMaxCombinedTokens)
	}
	if stopWords == nil {
		stopWords = suggest.NewStopWords()
	}
	if index == nil {
		index = suggest.NewIndex()
	}
	return &Service{
		generator: generator,
		stopWords: stopWords,
		index:     index,
		cfg:       cfg,
	}
}

// Suggest builds suggestions for tokens.
// extraStopWords are added to the base set for this call only.
// Tokens past server.max_tokens are never read.
func (s *Service) Suggest(tokens []string, extraStopWords []string) ([]string, time.Duration, error) {
	stopWords := s.stopWords
	if len(extraStopWords) > 0 {
		stopWords = stopWords.Merge(suggest.NewStopWords(extraStopWords...))
	}

	if s.cfg.MaxTokens > 0 && len(tokens) > s.cfg.MaxTokens {
		log.Warnf("Request has %d tokens, only the first %d are used", len(tokens), s.cfg.MaxTokens)
	}

	start := time.Now()
	suggestions, err := s.generator.Build(suggest.Take(suggest.Tokens(tokens...), s.cfg.MaxTokens), stopWords)
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, err
	}
	log.Debugf("Took [ %v ] for %d tokens -> %d suggestions", elapsed, len(tokens), len(suggestions))
	return suggestions, elapsed, nil
}

// Index adds suggestions to the shared index and returns (added, total)
func (s *Service) Index(suggestions []string) (int, int) {
	added := s.index.Add(suggestions...)
	return added, s.index.Len()
}

// Complete looks prefix up in the index with a limit clamped to the config
func (s *Service) Complete(prefix string, limit int) ([]string, time.Duration) {
	start := time.Now()
	results := s.index.Complete(prefix, s.clampLimit(limit))
	return results, time.Since(start)
}

// ResetIndex drops every indexed phrase
func (s *Service) ResetIndex() {
	s.index.Reset()
}

func (s *Service) clampLimit(limit int) int {
	if limit < 1 {
		return s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}
