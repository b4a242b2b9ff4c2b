// Package main is the Kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/browse"
	"github.com/kotae-ai/kotae/internal/chat"
	"github.com/kotae-ai/kotae/internal/cli"
	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/embedding"
	"github.com/kotae-ai/kotae/internal/generator"
	"github.com/kotae-ai/kotae/internal/ingest"
	"github.com/kotae-ai/kotae/internal/loader"
	"github.com/kotae-ai/kotae/internal/models"
	"github.com/kotae-ai/kotae/internal/retriever"
	"github.com/kotae-ai/kotae/internal/server"
	"github.com/kotae-ai/kotae/internal/splitter"
	"github.com/kotae-ai/kotae/internal/storage"
	"github.com/kotae-ai/kotae/internal/vector"
	"github.com/kotae-ai/kotae/internal/watcher"
	"github.com/kotae-ai/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kotae server" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A .env next to the binary is optional; env overrides still apply
	// when it is absent.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (retrieval, ingestion, watcher events)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		ing := components.Ingester
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			cfg.Watch.Directories,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) bool {
				_, ok := loader.Classify(path)
				return ok
			},
			func(path string) {
				result := ing.IngestFile(context.Background(), path)
				if result.Status == ingest.StatusFailed {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.String("error", result.Error))
				}
			},
			func(path string) {
				if err := ing.Remove(context.Background(), path); err != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(
		components.Chat,
		components.Ingester,
		components.Browser,
		components.Ledger,
		components.Store,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	report, err := components.Ingester.IngestPath(context.Background(), path)
	if err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(report.Message)
	for _, detail := range report.Details {
		for name, result := range detail {
			line := fmt.Sprintf("  %s: %s", name, result.Status)
			if result.ChunksCreated > 0 {
				line += fmt.Sprintf(" (%d chunks)", result.ChunksCreated)
			}
			if result.Reason != "" {
				line += fmt.Sprintf(" (%s)", result.Reason)
			}
			if result.Error != "" {
				line += fmt.Sprintf(" (%s)", result.Error)
			}
			fmt.Println(line)
		}
	}
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without the server)")
	mode := fs.String("mode", "local", "generation mode: local or cloud")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}
	question := buildQuestion(fs.Args())
	if question == "" {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	parsedMode, err := generator.ParseMode(*mode)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a second
		// SQLite handle on the ledger).
		answer, err := askViaHTTP(*serverURL, question, parsedMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, answer, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	answer := components.Chat.Ask(context.Background(), question, parsedMode)
	if err := cli.WriteAnswer(os.Stdout, answer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, question string, mode generator.Mode) (*models.Answer, error) {
	body, err := json.Marshal(models.ChatRequest{Question: question, Mode: mode.String()})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var answer models.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &answer, nil
}

// statusResponse is the shape of GET /api/status.
type statusResponse struct {
	Files   int64   `json:"files"`
	Chunks  int64   `json:"chunks"`
	Vectors *uint64 `json:"vectors,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read local state)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		fileCount, err := components.Ledger.CountFiles(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count files failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Ledger.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{Files: fileCount, Chunks: chunkCount}
		if vectorCount, err := components.Store.Count(ctx); err == nil {
			status.Vectors = &vectorCount
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("files:    %d   # ingested source files\n", status.Files)
		fmt.Printf("chunks:   %d   # text chunks across files\n", status.Chunks)
		if status.Vectors != nil {
			fmt.Printf("vectors:  %d   # points in the vector store\n", *status.Vectors)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Ledger   storage.Ledger
	Embedder embedding.Embedder
	Store    vector.Store
	Ingester *ingest.Ingester
	Chat     *chat.Service
	Browser  *browse.Browser
}

func (c *Components) Close() {
	if c.Ledger != nil {
		_ = c.Ledger.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ledger, err := storage.NewSQLiteLedger(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	var embedder embedding.Embedder
	switch cfg.Embedding.Provider {
	case "ollama", "":
		embedder = embedding.NewOllamaEmbedder(&cfg.Embedding)
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	default:
		_ = ledger.Close()
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}

	store, err := vector.NewStore(&cfg.Vector, embedder.Dimensions())
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := store.EnsureCollection(ctx); err != nil {
		_ = ledger.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	logger.Info("vector store ready",
		zap.String("type", cfg.Vector.Type),
		zap.String("collection", cfg.Vector.Collection),
		zap.Int("dimensions", embedder.Dimensions()))

	ld := loader.New()
	sp := splitter.New(&cfg.Chunking)
	ingester := ingest.New(ld, sp, embedder, store, ledger, ingest.WithLogger(logger))

	ret := retriever.New(embedder, store,
		retriever.WithLogger(logger),
		retriever.WithTopK(cfg.Retrieval.TopK))
	router := generator.NewRouter(
		generator.NewOllamaBackend(&cfg.Generation.Local),
		generator.NewOpenAIBackend(&cfg.Generation.Cloud),
		generator.WithLogger(logger),
	)
	chatSvc := chat.New(ret, router, logger)
	browser := browse.New(cfg.Ingest.MountPath)

	return &Components{
		Ledger:   ledger,
		Embedder: embedder,
		Store:    store,
		Ingester: ingester,
		Chat:     chatSvc,
		Browser:  browser,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Retrieval-augmented question answering over your documents

Usage:
  kotae server [flags]            Start the HTTP server
  kotae ingest [flags] <path>     Ingest a file or directory
  kotae ask [flags] <question>    Ask a question against ingested documents
  kotae status [flags]            Show ingest and vector store status
  kotae version                   Show version
  kotae help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml)
  --debug            Enable debug logging (retrieval, ingestion, watcher events)

Ingest Flags:
  --config string    Config file path

Ask Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer without the server.
  --mode string      Generation mode: local or cloud (default: local)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for local state.
  --output string    Output format: text or json (default: text)

Examples:
  kotae server
  kotae ingest ./docs
  kotae ask "What is the refund policy?"
  kotae ask --mode cloud "Summarize the architecture notes"
  kotae ask --output json "query"   # structured JSON for other apps
  kotae status
  kotae status --output json`)
}
