package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/internal/chunker"
	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/extractor"
	"pdfchat/internal/generator"
	"pdfchat/internal/retriever"
	"pdfchat/internal/session"
	"pdfchat/internal/tui"
	"pdfchat/internal/vectorstore"
	"pdfchat/internal/vectorstore/chromem"
	"pdfchat/internal/vectorstore/memory"
	"pdfchat/internal/vectorstore/postgres"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	cfgPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file")
	query := flag.String("query", "", "Ask a single question and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	sess, err := buildSession(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error assembling components")
	}

	ctx := context.Background()

	if *filePath != "" {
		if err := sess.Load(ctx, *filePath); err != nil {
			log.Fatal().Err(err).Msg("Error indexing document")
		}
	}

	if *query != "" {
		if *filePath == "" {
			log.Fatal().Msg("The -query flag requires a document via -file")
		}
		askOnce(ctx, sess, *query)
		return
	}

	// TUI runs on stdout; keep the logger out of its way.
	log.Logger = zerolog.Nop()
	if _, err := tea.NewProgram(tui.New(sess), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("Error running chat interface")
	}
}

func buildSession(cfg *config.Config) (*session.Session, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedder)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(&cfg.Generator)
	if err != nil {
		return nil, err
	}

	return session.New(
		extractor.New(),
		chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		retriever.New(store, embedder, cfg.RAG.TopK),
		gen,
	), nil
}

func newStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Store.Type {
	case "memory", "":
		return memory.New(), nil
	case "chromem":
		return chromem.New(cfg.Store.Path, cfg.Store.Collection, false)
	case "postgres":
		return postgres.New(cfg.Store.DSN, cfg.Store.Debug)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}

func askOnce(ctx context.Context, sess *session.Session, query string) {
	answer, err := sess.Ask(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering query")
	}

	fmt.Printf("Query:\n%s\n\n", query)
	fmt.Printf("Assistant:\n%s\n", answer)
}
