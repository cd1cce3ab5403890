package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pdfchat/internal/chunker"
	"pdfchat/internal/models"
	"pdfchat/internal/retriever"
)

// State of the session: Idle until a document has been indexed.
type State int

const (
	Idle State = iota
	Indexed
)

func (s State) String() string {
	if s == Indexed {
		return "indexed"
	}
	return "idle"
}

// ErrNoDocument is returned by Ask before any document has been indexed.
var ErrNoDocument = errors.New("no document loaded")

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Extract(path string) (string, error)
}

// Retriever owns the vector index over the current document's chunks.
type Retriever interface {
	Build(ctx context.Context, chunks []string) error
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// Generator answers a question given retrieved context.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
}

// Session holds one conversation over one indexed document. All operations
// are synchronous and the session is driven by a single logical thread of
// control; there is no internal locking.
type Session struct {
	extractor Extractor
	splitter  *chunker.Splitter
	retriever Retriever
	generator Generator

	state    State
	document string
	turns    []models.Turn
}

func New(extractor Extractor, splitter *chunker.Splitter, retriever Retriever, generator Generator) *Session {
	return &Session{
		extractor: extractor,
		splitter:  splitter,
		retriever: retriever,
		generator: generator,
		state:     Idle,
	}
}

func (s *Session) State() State { return s.state }

// Document returns the name of the currently indexed document.
func (s *Session) Document() string { return s.document }

// History returns the transcript in order. The slice is a copy; turns are
// append-only and never mutated.
func (s *Session) History() []models.Turn {
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Load extracts, chunks and indexes the document at path, replacing any
// previously indexed document. On failure the prior state is kept: a
// session that was Indexed stays Indexed on the old document, a fresh
// session stays Idle. The exception is an indexing failure that discarded
// the previous index; then the session drops back to Idle.
func (s *Session) Load(ctx context.Context, path string) error {
	text, err := s.extractor.Extract(path)
	if err != nil {
		return err
	}

	chunks := s.splitter.Split(text)
	if err := s.retriever.Build(ctx, chunks); err != nil {
		if errors.Is(err, retriever.ErrIndexDiscarded) {
			s.state = Idle
			s.document = ""
			log.Warn().Str("document", path).Msg("index lost during rebuild, session reset to idle")
		}
		return fmt.Errorf("build index for %s: %w", path, err)
	}

	s.state = Indexed
	s.document = path
	log.Info().Str("document", path).Int("chunks", len(chunks)).Msg("document indexed")
	return nil
}

// Ask runs one conversation turn: the user question is appended, the top-K
// chunks are retrieved, and the generated answer is appended as the
// assistant turn. When retrieval or generation fails, an error-surfacing
// assistant turn is appended instead and the error is returned; the session
// stays Indexed and usable for the next question.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if s.state != Indexed {
		return "", ErrNoDocument
	}

	s.turns = append(s.turns, models.Turn{Role: models.RoleUser, Content: question})

	contexts, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return s.failTurn(fmt.Errorf("retrieve context: %w", err))
	}

	answer, err := s.generator.Generate(ctx, question, contexts)
	if err != nil {
		return s.failTurn(err)
	}

	s.turns = append(s.turns, models.Turn{Role: models.RoleAssistant, Content: answer})
	return answer, nil
}

func (s *Session) failTurn(err error) (string, error) {
	log.Error().Err(err).Msg("conversation turn failed")
	s.turns = append(s.turns, models.Turn{
		Role:    models.RoleAssistant,
		Content: "Sorry, something went wrong: " + err.Error(),
	})
	return "", err
}

// Reset clears the transcript. The indexed document and state are untouched.
func (s *Session) Reset() {
	s.turns = nil
	log.Info().Msg("chat history cleared")
}
