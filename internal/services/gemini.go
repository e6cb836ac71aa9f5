package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"aws-tutor/internal/models"
)

const (
	contextPassages   = 3
	maxPassageRunes   = 2000
	rateSlotWaitLimit = 2 * time.Minute
)

type GeminiTutor struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	retriever Retriever
	logger    *zap.Logger
	rateChan  chan struct{} // Token bucket
}

// NewGeminiTutor connects to Gemini. retriever may be nil, in which case
// questions are answered without documentation context.
func NewGeminiTutor(
	apiKey string,
	modelName string,
	concurrentReqs int,
	retriever Retriever,
	logger *zap.Logger,
) (*GeminiTutor, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetTopP(0.95)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiTutor{
		client:    client,
		model:     model,
		retriever: retriever,
		logger:    logger,
		rateChan:  rateChan,
	}, nil
}

func (s *GeminiTutor) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiTutor) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rateSlotWaitLimit):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiTutor) releaseRate() {
	s.rateChan <- struct{}{}
}

func (s *GeminiTutor) Answer(ctx context.Context, question string) (string, error) {
	passages := s.retrieve(ctx, question)

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildQuestionPrompt(question, passages)))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("Gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}

	return strings.TrimSpace(extractText(resp)), nil
}

// retrieve never fails the question: without passages the model still answers.
func (s *GeminiTutor) retrieve(ctx context.Context, question string) []models.Document {
	if s.retriever == nil || strings.TrimSpace(question) == "" {
		return nil
	}
	docs, err := s.retriever.Search(ctx, question, contextPassages)
	if err != nil {
		s.logger.Warn("documentation search failed", zap.Error(err))
		return nil
	}
	return docs
}

const systemPrompt = `You are an AWS tutor. Answer questions about Amazon Web Services clearly and accurately for a learner.
Keep answers short: a few sentences, plain text, no markdown tables.
When documentation excerpts are provided, prefer them over memory and mention the page title you relied on.
If the question is not about AWS, say so briefly and suggest an AWS-related angle.`

func buildQuestionPrompt(question string, passages []models.Document) string {
	var b strings.Builder

	if len(passages) > 0 {
		b.WriteString("Documentation excerpts:\n\n")
		for i, doc := range passages {
			fmt.Fprintf(&b, "[%d] %s", i+1, doc.Title)
			if doc.Section != "" {
				fmt.Fprintf(&b, " / %s", doc.Section)
			}
			if doc.URL != "" {
				fmt.Fprintf(&b, " (%s)", doc.URL)
			}
			b.WriteString("\n")
			b.WriteString(truncateRunes(doc.Content, maxPassageRunes))
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
