// Package cli handles cmd line input and suggestions for DBG and testing the generator
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/phraseserve/internal/utils"
	"github.com/bastiangx/phraseserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// InputHandler reads lines of whitespace separated tokens and prints
// the suggestions built from each line. With an index attached, every
// result is indexed and lines starting with '?' query it by prefix.
type InputHandler struct {
	generator    suggest.IGenerator
	stopWords    *suggest.StopWords
	index        suggest.ICompleter
	out          io.Writer
	suggestLimit int
	jsonOutput   bool
	requestCount int
}

// jsonResult is one line of -json output
type jsonResult struct {
	Input       string   `json:"input"`
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
	TimeTaken   int64    `json:"time_us"`
}

// NewInputHandler handles initialization of the InputHandler with basic parameters.
// index may be nil to disable indexing and '?' lookups.
func NewInputHandler(generator suggest.IGenerator, stopWords *suggest.StopWords, index suggest.ICompleter, out io.Writer, limit int, jsonOutput bool) *InputHandler {
	return &InputHandler{
		generator:    generator,
		stopWords:    stopWords,
		index:        index,
		out:          out,
		suggestLimit: limit,
		jsonOutput:   jsonOutput,
	}
}

// Start begins the interface loop.
// It reads lines from in until EOF, which ends the loop without an error.
func (h *InputHandler) Start(in io.Reader) error {
	log.Print("PhraseServe CLI [BETA]")
	log.Print("type tokens separated by spaces and press Enter (Ctrl+C to exit):")
	if h.index != nil {
		log.Print("lines starting with '?' look up indexed phrases by prefix")
	}

	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if herr := h.handleInput(line); herr != nil {
				return herr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleInput builds suggestions for one line, or runs a prefix lookup.
func (h *InputHandler) handleInput(line string) error {
	h.requestCount++

	if h.index != nil && strings.HasPrefix(line, "?") {
		return h.handleLookup(strings.TrimSpace(line[1:]))
	}

	tokens := utils.SplitFields(line)
	start := time.Now()
	suggestions, err := h.generator.BuildSlice(tokens, h.stopWords)
	if err != nil {
		return fmt.Errorf("building suggestions: %w", err)
	}
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for %d tokens", elapsed, len(tokens))

	if h.index != nil {
		added := h.index.Add(suggestions...)
		log.Debugf("Indexed %d new phrases", added)
	}

	return h.print(line, suggestions, elapsed)
}

func (h *InputHandler) handleLookup(prefix string) error {
	if prefix == "" {
		log.Warn("Empty prefix")
		return nil
	}
	start := time.Now()
	results := h.index.Complete(prefix, h.suggestLimit)
	return h.print("?"+prefix, results, time.Since(start))
}

func (h *InputHandler) print(input string, suggestions []string, elapsed time.Duration) error {
	if h.jsonOutput {
		data, err := json.Marshal(jsonResult{
			Input:       input,
			Suggestions: suggestions,
			Count:       len(suggestions),
			TimeTaken:   elapsed.Microseconds(),
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(h.out, string(data))
		return err
	}

	if len(suggestions) == 0 {
		log.Warnf("No suggestions for: '%s'", input)
		return nil
	}

	shown := suggestions
	if h.suggestLimit > 0 && len(shown) > h.suggestLimit {
		shown = shown[:h.suggestLimit]
	}
	fmt.Fprintf(h.out, "Found %s suggestions for '%s':\n", utils.FormatWithCommas(len(suggestions)), input)
	for i, s := range shown {
		fmt.Fprintf(h.out, "%2d. \033[38;5;75m%s\033[0m\n", i+1, s)
	}
	if len(shown) < len(suggestions) {
		fmt.Fprintf(h.out, "    ... %d more\n", len(suggestions)-len(shown))
	}
	return nil
}
