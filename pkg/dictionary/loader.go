// Package dictionary loads stop-word lists and token files for the suggestion generator.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/phraseserve/internal/utils"
	"github.com/bastiangx/phraseserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single line of a word list or token file
const maxLineSize = 1 << 20

// tomlWordList accepts both a top level array and a [stopwords] table
type tomlWordList struct {
	Words     []string `toml:"words"`
	StopWords struct {
		Words []string `toml:"words"`
	} `toml:"stopwords"`
}

// LoadStopWords reads a stop-word list from a text or TOML file
func LoadStopWords(path string) (*suggest.StopWords, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML:
		var list tomlWordList
		if _, err := toml.DecodeFile(path, &list); err != nil {
			return nil, fmt.Errorf("failed to parse stop words from %s: %w", path, err)
		}
		words := append(list.Words, list.StopWords.Words...)
		log.Debugf("Loaded %d stop words from %s", len(words), path)
		return suggest.NewStopWords(words...), nil
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", path, err)
		}
		defer file.Close()

		sw, err := ReadStopWords(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read stop words from %s: %w", path, err)
		}
		log.Debugf("Loaded %d stop words from %s", sw.Len(), path)
		return sw, nil
	}
}

// ReadStopWords reads one word per line, skipping blank lines and '#' comments
func ReadStopWords(r io.Reader) (*suggest.StopWords, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var words []string
	for scanner.Scan() {
		line := scanner.Text()
		if utils.IsComment(line) {
			continue
		}
		words = append(words, strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return suggest.NewStopWords(words...), nil
}

// ReadTokens lazily yields one token per line of r, skipping empty lines.
// A read error is yielded once and ends the sequence.
func ReadTokens(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

		for scanner.Scan() {
			token := scanner.Text()
			if token == "" {
				continue
			}
			if !yield(token, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}
