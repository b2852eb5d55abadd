package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/runtime"
)

const (
	defaultTopK         = 4
	defaultHistoryTurns = 6
)

const answerSystemPrompt = "Use the following pieces of context (or previous conversation if needed) to answer the user's question in markdown format."

// AnswerEngine answers a question from a document's indexed pages.
// It produces a token stream and never persists anything.
type AnswerEngine struct {
	services     *runtime.Services
	index        driven.VectorIndex
	topK         int
	historyTurns int
	temperature  float64
	logger       *slog.Logger
}

// AnswerEngineConfig holds dependencies for AnswerEngine.
type AnswerEngineConfig struct {
	Services     *runtime.Services
	Index        driven.VectorIndex
	TopK         int
	HistoryTurns int
	Temperature  float64
	Logger       *slog.Logger
}

// NewAnswerEngine creates a new AnswerEngine.
func NewAnswerEngine(cfg AnswerEngineConfig) *AnswerEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = defaultHistoryTurns
	}
	return &AnswerEngine{
		services:     cfg.Services,
		index:        cfg.Index,
		topK:         cfg.TopK,
		historyTurns: cfg.HistoryTurns,
		temperature:  cfg.Temperature,
		logger:       logger,
	}
}

// HistoryTurns is the number of prior turns included in a prompt
func (e *AnswerEngine) HistoryTurns() int {
	return e.historyTurns
}

// Answer embeds the question, retrieves the nearest pages from the
// document's namespace and opens a streaming generation.
// Retrieval failures return domain.ErrRetrieval; there is no ungrounded fallback.
func (e *AnswerEngine) Answer(ctx context.Context, documentID, question string, history []domain.ChatTurn) (driven.TokenStream, error) {
	embedder, err := e.services.Embedder()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	generator, err := e.services.Generator()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStreamFailed, err)
	}

	vec, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrRetrieval, err)
	}

	segments, err := e.index.Query(ctx, documentID, vec, e.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: query namespace: %w", domain.ErrRetrieval, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: namespace %s is empty", domain.ErrRetrieval, documentID)
	}
	for _, seg := range segments {
		if seg.Model != "" && seg.Model != embedder.Model() {
			return nil, fmt.Errorf("%w: page %d indexed with %s, question embedded with %s",
				domain.ErrRetrieval, seg.PageNumber, seg.Model, embedder.Model())
		}
	}

	e.logger.Debug("context retrieved",
		"document_id", documentID,
		"segments", len(segments),
		"model", embedder.Model(),
	)

	prompt := BuildPrompt(question, segments, lastTurns(history, e.historyTurns))
	prompt.Temperature = e.temperature

	stream, err := generator.Stream(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStreamFailed, err)
	}
	return stream, nil
}

// BuildPrompt assembles the generation request from retrieved context,
// prior turns (oldest first) and the question.
func BuildPrompt(question string, segments []domain.RetrievedSegment, history []domain.ChatTurn) *domain.Prompt {
	var b strings.Builder
	b.WriteString("Use the following pieces of context (or previous conversation if needed) to answer the user's question in markdown format.\n")
	b.WriteString("If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n")
	b.WriteString("----------------\n\n")
	b.WriteString("PREVIOUS CONVERSATION:\n")
	for _, turn := range history {
		if turn.IsUserMessage {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("\n----------------\n\n")
	b.WriteString("CONTEXT:\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "[page %d]\n%s\n\n", seg.PageNumber, seg.Text)
	}
	b.WriteString("USER INPUT: ")
	b.WriteString(question)

	return &domain.Prompt{
		Messages: []domain.PromptMessage{
			{Role: domain.PromptRoleSystem, Content: answerSystemPrompt},
			{Role: domain.PromptRoleUser, Content: b.String()},
		},
	}
}

func lastTurns(history []domain.ChatTurn, n int) []domain.ChatTurn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
