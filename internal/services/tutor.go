package services

import (
	"context"
	"fmt"

	"aws-tutor/internal/models"
)

// Tutor answers a single AWS question.
type Tutor interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Retriever finds documentation passages relevant to a question.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]models.Document, error)
}

// EchoTutor stands in when no model is configured.
type EchoTutor struct{}

func (EchoTutor) Answer(_ context.Context, question string) (string, error) {
	return fmt.Sprintf("Echoing your question: %s", question), nil
}
