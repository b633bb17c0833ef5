/*
Package main implements the phrase suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

PhraseServe turns a stream of tokens into candidate phrases. Tokens are split
into runs by stop words and single character tokens, and every run yields
its n-grams of up to max_combined_tokens tokens, in order and without
duplicates.

# Usage

Start the IPC server with default settings:

	phraseserve

Serve the JSON API instead:

	phraseserve -http 127.0.0.1:8088

Run the interactive CLI with debug logging, indexing every result:

	phraseserve -c -d -index -limit 10

Build suggestions for a token file, one token per line ("-" reads stdin):

	phraseserve -tokens tokens.txt -json

# Configuration

Runtime configuration lives in a TOML file that is created with defaults on
first run:

	[generator]
	max_combined_tokens = 3

	[stopwords]
	use_defaults = true
	file = ""
	words = []

	[server]
	max_tokens = 10000
	max_limit = 64
	default_limit = 10
	http_addr = "127.0.0.1:8088"

	[cli]
	default_limit = 24
	json_output = false

# IPC Protocol

The server communicates via MessagePack over stdin/stdout:

	{"id": "req1", "action": "suggest", "tk": ["cat", "sat", "on", "the", "mat"]}
	{"id": "req1", "s": ["cat", "cat sat", "sat", "mat"], "c": 4, "t": 12}

See package server for the full list of actions.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/phraseserve/internal/cli"
	"github.com/bastiangx/phraseserve/internal/logger"
	"github.com/bastiangx/phraseserve/pkg/config"
	"github.com/bastiangx/phraseserve/pkg/dictionary"
	"github.com/bastiangx/phraseserve/pkg/server"
	"github.com/bastiangx/phraseserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

const (
	Version = "0.3.0-beta"
	AppName = "phraseserve"
	gh      = "https://github.com/bastiangx/phraseserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
// The HTTP server manages its own shutdown and does not use it.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between packages.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	indexMode := flag.Bool("index", false, "CLI only: index every result and answer '?prefix' lookups")
	httpAddr := flag.String("http", "", "Serve the JSON API on this address instead of IPC (\"config\" uses server.http_addr)")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	stopWordsFile := flag.String("stopwords", "", "Extra stop-word list (.txt, .lst or .toml)")
	maxCombined := flag.Int("max", 0, "Max tokens combined into one suggestion (0 uses the config value)")
	tokensFile := flag.String("tokens", "", "Build suggestions for a token file, one token per line (\"-\" for stdin)")
	jsonOutput := flag.Bool("json", defaultConfig.CLI.JSONOutput, "Print results as JSON")
	limit := flag.Int("limit", 0, "Number of suggestions to print (0 uses the config value)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at %s\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	stopWords, err := loadStopWords(appConfig.StopWords, *stopWordsFile)
	if err != nil {
		log.Fatalf("Failed to load stop words: %v", err)
	}

	combined := appConfig.Generator.MaxCombinedTokens
	if *maxCombined > 0 {
		combined = *maxCombined
	}
	generator := suggest.NewGenerator(combined)
	log.Debug("Generator ready", "maxCombined", generator.MaxCombinedTokens(), "stopWords", stopWords.Len())

	printLimit := appConfig.CLI.DefaultLimit
	if *limit > 0 {
		printLimit = *limit
	}
	asJSON := *jsonOutput || appConfig.CLI.JSONOutput

	switch {
	case *tokensFile != "":
		if err := runBatch(*tokensFile, generator, stopWords, os.Stdout, printLimit, asJSON); err != nil {
			log.Fatalf("Batch error: %v", err)
		}

	// CLI would be mainly used for testing and dbg purposes.
	case *cliMode:
		sigHandler()
		log.SetReportTimestamp(false)
		var index suggest.ICompleter
		if *indexMode {
			index = suggest.NewIndex()
		}
		inputHandler := cli.NewInputHandler(generator, stopWords, index, os.Stdout, printLimit, asJSON)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *httpAddr != "":
		addr := *httpAddr
		if addr == "config" {
			addr = appConfig.Server.HTTPAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service := server.NewService(generator, stopWords, suggest.NewIndex(), appConfig.Server)
		if err := server.NewHTTPServer(service).ListenAndServe(ctx, addr); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}

	default:
		sigHandler()
		log.Debug("spawning IPC")
		service := server.NewService(generator, stopWords, suggest.NewIndex(), appConfig.Server)
		showStartupInfo(activePath, stopWords.Len())
		if err := server.NewServer(service).Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// loadStopWords builds the base stop-word set from config and the -stopwords flag.
// The built-in list is used only when use_defaults is set.
func loadStopWords(cfg config.StopWordsConfig, extraFile string) (*suggest.StopWords, error) {
	stopWords := suggest.NewStopWords(cfg.Words...)
	if cfg.UseDefaults {
		stopWords = stopWords.Merge(dictionary.DefaultStopWords())
	}
	for _, path := range []string{cfg.File, extraFile} {
		if path == "" {
			continue
		}
		fromFile, err := dictionary.LoadStopWords(path)
		if err != nil {
			return nil, err
		}
		stopWords = stopWords.Merge(fromFile)
	}
	return stopWords, nil
}

// runBatch streams tokens from path ("-" for stdin) through the generator
// and prints the result.
func runBatch(path string, generator *suggest.Generator, stopWords *suggest.StopWords, out io.Writer, limit int, asJSON bool) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open token file %s: %w", path, err)
		}
		defer file.Close()
		in = file
	}

	suggestions, err := generator.Build(dictionary.ReadTokens(in), stopWords)
	if err != nil {
		return fmt.Errorf("building suggestions from %s: %w", path, err)
	}

	if asJSON {
		data, err := json.Marshal(suggestions)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if limit > 0 && len(suggestions) > limit {
		log.Debugf("Printing %d of %d suggestions", limit, len(suggestions))
		suggestions = suggestions[:limit]
	}
	for _, s := range suggestions {
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	return nil
}

func printVersion() {
	versionLogger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	versionLogger.SetStyles(styles)

	versionLogger.Print("")
	versionLogger.Print("[ PhraseServe ] Builds phrase suggestions from token streams")
	versionLogger.Print("", "version", Version)
	versionLogger.Print("")
	versionLogger.Print("use -h or --help to see available options")
	versionLogger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
// stdout carries IPC responses, so everything goes to stderr.
func showStartupInfo(configPath string, stopWordCount int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, " PhraseServe ")
	fmt.Fprintln(os.Stderr, "=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("stop words: %d", stopWordCount)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "=============")

	log.SetLevel(currentLevel)
}
