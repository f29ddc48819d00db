package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docchat/docchat-go/internal/domain/ports"
)

// Retrieval knobs and fixed responses for grounded answering.
const (
	answerTopK = 3

	// NoRelevantInformationAnswer is returned when retrieval finds nothing,
	// without calling the generation service.
	NoRelevantInformationAnswer = "I could not find relevant information in the document for this question."

	// EmptyCompletionAnswer is returned when the generation service responds
	// successfully but with no completion text.
	EmptyCompletionAnswer = "I did not receive a valid answer from the AI model."
)

const systemInstruction = "You are an AI assistant that answers questions based on supplied documents. " +
	"Answer ONLY from the provided context, in the same language the question was asked in. " +
	"Default to English."

// AnswerUseCase assembles a grounded prompt from retrieved chunks and
// delegates to the generation service.
type AnswerUseCase struct {
	retriever *RetrieveUseCase
	generator ports.GenerationService
	logger    *slog.Logger
}

// NewAnswerUseCase creates an AnswerUseCase with injected dependencies.
func NewAnswerUseCase(
	retriever *RetrieveUseCase,
	generator ports.GenerationService,
	logger *slog.Logger,
) *AnswerUseCase {
	return &AnswerUseCase{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// Answer retrieves the most relevant chunks for the question and asks the
// generation service for an answer grounded in them. An empty retrieval is
// a normal outcome and short-circuits to a fixed response.
func (uc *AnswerUseCase) Answer(ctx context.Context, documentID, question string) (string, error) {
	ranked, err := uc.retriever.Rank(ctx, documentID, question, answerTopK)
	if err != nil {
		return "", err
	}

	if len(ranked) == 0 {
		uc.logger.Info("no relevant chunks found", "documentId", documentID)
		return NoRelevantInformationAnswer, nil
	}

	contextParts := make([]string, len(ranked))
	for i, r := range ranked {
		contextParts[i] = fmt.Sprintf("[Passage %d]: %s", i+1, r.Chunk.Text)
	}

	userInstruction := fmt.Sprintf(
		"Context from the document:\n%s\n\nQuestion: %s\n\n"+
			"Answer briefly and precisely in the language the question was asked in, "+
			"based only on the information in the context.",
		strings.Join(contextParts, "\n\n"), question)

	answer, err := uc.generator.Generate(ctx, systemInstruction, userInstruction)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return EmptyCompletionAnswer, nil
	}
	return answer, nil
}
