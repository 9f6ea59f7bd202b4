// Package main is the Midashi CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/midashi/internal/config"
	"github.com/hyperjump/midashi/internal/embedding"
	"github.com/hyperjump/midashi/internal/extract"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/pipeline"
	"github.com/hyperjump/midashi/internal/scoring"
	"github.com/hyperjump/midashi/internal/server"
	"github.com/hyperjump/midashi/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/midashi/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used. When neither exists, built-in defaults apply.
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
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "(defaults)", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "outline":
		runOutline()
	case "analyze":
		runAnalyze()
	case "server":
		runServer()
	case "version", "--version", "-v":
		fmt.Printf("midashi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runOutline() {
	fs := flag.NewFlagSet("outline", flag.ExitOnError)
	inputDir := fs.String("input", "", "directory containing PDF files")
	outputDir := fs.String("output", "", "directory for per-document JSON outlines")
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if *inputDir == "" || *outputDir == "" {
		fmt.Println("outline requires --input and --output directories")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.Debug || *debug)
	defer logger.Sync()

	analyzer, cleanup := newAnalyzer(cfg, logger)
	defer cleanup()

	paths, err := extract.FindPDFs(*inputDir)
	if err != nil {
		logger.Fatal("Failed to read input directory", zap.Error(err))
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	for _, path := range paths {
		result, err := analyzer.OutlineFile(path)
		if err != nil {
			logger.Warn("skipping document", zap.String("path", path), zap.Error(err))
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
		outPath := filepath.Join(*outputDir, name)
		if err := writeJSON(outPath, result); err != nil {
			logger.Fatal("Failed to write outline", zap.String("path", outPath), zap.Error(err))
		}
		logger.Info("outline written",
			zap.String("document", filepath.Base(path)),
			zap.Int("headings", len(result.Headings)))
	}
}

// analyzeInput mirrors the batch input document format: a list of filenames
// plus the persona and job description.
type analyzeInput struct {
	Documents []struct {
		Filename string `json:"filename"`
	} `json:"documents"`
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	pdfDir := fs.String("pdf-dir", "", "directory containing PDF files")
	role := fs.String("role", "", "persona role")
	task := fs.String("task", "", "job to be done")
	inputPath := fs.String("input", "", "batch input JSON (documents + persona + job)")
	outputPath := fs.String("output", "", "output JSON path (default: stdout)")
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.Debug || *debug)
	defer logger.Sync()
	logger.Debug("config loaded", zap.String("config_path", resolvedConfigPath))

	if *pdfDir == "" {
		fmt.Println("analyze requires --pdf-dir")
		os.Exit(1)
	}

	query := models.PersonaQuery{Role: *role, Task: *task}
	var paths []string
	if *inputPath != "" {
		input, err := readAnalyzeInput(*inputPath)
		if err != nil {
			logger.Fatal("Failed to read input file", zap.String("path", *inputPath), zap.Error(err))
		}
		if query.Role == "" {
			query.Role = input.Persona.Role
		}
		if query.Task == "" {
			query.Task = input.JobToBeDone.Task
		}
		for _, doc := range input.Documents {
			paths = append(paths, filepath.Join(*pdfDir, doc.Filename))
		}
	}
	if err := query.Validate(); err != nil {
		fmt.Printf("Invalid persona query: %v\n", err)
		os.Exit(1)
	}

	analyzer, cleanup := newAnalyzer(cfg, logger)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	var result *models.AnalysisResult
	if len(paths) > 0 {
		result, err = analyzer.AnalyzePaths(ctx, paths, query)
	} else {
		result, err = analyzer.AnalyzeDir(ctx, *pdfDir, query)
	}
	if err != nil {
		logger.Fatal("Analysis failed", zap.Error(err))
	}
	logger.Info("analysis complete",
		zap.Int("documents", len(result.Metadata.InputDocuments)),
		zap.Int("sections", len(result.ExtractedSections)),
		zap.Duration("elapsed", time.Since(start)))

	if *outputPath == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Fatal("Failed to encode result", zap.Error(err))
		}
		return
	}
	if err := writeJSON(*outputPath, result); err != nil {
		logger.Fatal("Failed to write result", zap.String("path", *outputPath), zap.Error(err))
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger := newLogger(debugMode)
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	analyzer, cleanup := newAnalyzer(cfg, logger)
	defer cleanup()

	srv := server.NewServer(analyzer, &cfg.Server, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newAnalyzer builds the analyzer with model-backed components when model
// paths are configured and runtime support is available, falling back to
// the deterministic built-in embedder and lexical scorer otherwise.
func newAnalyzer(cfg *config.Config, logger *zap.Logger) (*pipeline.Analyzer, func()) {
	var embedder embedding.Embedder
	if cfg.Embedding.ModelPath != "" {
		onnx, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			logger.Warn("ONNX embedder unavailable, using built-in embedder", zap.Error(err))
		} else {
			embedder = onnx
		}
	}
	if embedder == nil {
		embedder = embedding.NewHashingEmbedder(cfg.Embedding.Dimensions)
	}

	var scorer scoring.PairScorer
	if cfg.Scoring.ModelPath != "" {
		ce, err := scoring.NewCrossEncoder(cfg.Scoring.ModelPath, cfg.Scoring.MaxTokens)
		if err != nil {
			logger.Warn("cross-encoder unavailable, using lexical scorer", zap.Error(err))
		} else {
			scorer = ce
		}
	}
	if scorer == nil {
		scorer = scoring.NewLexicalScorer()
	}

	cleanup := func() {
		_ = embedder.Close()
		_ = scorer.Close()
	}
	return pipeline.NewAnalyzer(cfg, embedder, scorer, logger), cleanup
}

func newLogger(debug bool) *zap.Logger {
	logger, err := utils.NewLogger(debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		cancel()
	}()
	return ctx, cancel
}

func readAnalyzeInput(path string) (*analyzeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var input analyzeInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &input, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printUsage() {
	fmt.Println(`midashi - PDF outline reconstruction and persona-driven analysis

Usage:
  midashi outline [flags]   Reconstruct heading outlines for a directory of PDFs
  midashi analyze [flags]   Rank document sections against a persona and task
  midashi server [flags]    Start the HTTP server
  midashi version           Show version
  midashi help              Show this help

Outline Flags:
  --input string     Directory containing PDF files (required)
  --output string    Directory for per-document JSON outlines (required)
  --config string    Config file path (default: /usr/local/etc/midashi/config.yaml)
  --debug            Enable debug logging

Analyze Flags:
  --pdf-dir string   Directory containing PDF files (required)
  --role string      Persona role, e.g. "Travel Planner"
  --task string      Job to be done, e.g. "Plan a 4-day trip"
  --input string     Batch input JSON naming documents, persona, and job
  --output string    Output JSON path (default: stdout)
  --config string    Config file path
  --debug            Enable debug logging

Server Flags:
  --config string    Config file path
  --debug            Enable debug logging

Examples:
  midashi outline --input ./pdfs --output ./outlines
  midashi analyze --pdf-dir ./pdfs --role "HR professional" --task "Create fillable forms"
  midashi analyze --pdf-dir ./pdfs --input challenge.json --output result.json
  midashi server --config ./config.yaml`)
}
