package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"resty.dev/v3"

	"aws-tutor/internal/models"
)

// FallbackAnswer is what the user sees whenever an answer could not be fetched.
const FallbackAnswer = "Sorry, something went wrong."

// ChatPath is the tutor endpoint every question is posted to.
const ChatPath = "/chat"

// RealIPHeader carries the asking user's address to the tutor API, which
// rate limits per user rather than per UI process.
const RealIPHeader = "X-Real-IP"

type clientIPKey struct{}

// WithClientIP records the address of the user a question is asked for.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// Fetcher asks the tutor API one question at a time. Ask never fails: every
// transport or decoding problem is logged and collapsed into FallbackAnswer.
type Fetcher struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Fetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	return &Fetcher{
		httpClient: client,
		logger:     logger,
	}
}

func (f *Fetcher) Close() error {
	return f.httpClient.Close()
}

// Ask posts the question verbatim and returns the answer text.
func (f *Fetcher) Ask(ctx context.Context, question string) string {
	answer, err := f.ask(ctx, question)
	if err != nil {
		f.logger.Error("error fetching the answer", zap.Error(err))
		return FallbackAnswer
	}
	return answer
}

// chatPayload keeps the answer raw so its type is checked separately.
type chatPayload struct {
	Response json.RawMessage `json:"response"`
}

var (
	errNotJSONObject = errors.New("response body is not a JSON object")
	errNoAnswerField = errors.New("response body has no answer")
)

func (f *Fetcher) ask(ctx context.Context, question string) (string, error) {
	req := f.httpClient.R().
		SetContext(ctx).
		SetBody(models.ChatRequest{Question: question})
	if ip := clientIPFrom(ctx); ip != "" {
		req.SetHeader(RealIPHeader, ip)
	}

	response, err := req.Post(ChatPath)
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}

	// Status codes are not inspected: an error body decodes like any other.
	body := bytes.TrimSpace([]byte(response.String()))
	if len(body) == 0 || body[0] != '{' {
		return "", fmt.Errorf("status %d: %w", response.StatusCode(), errNotJSONObject)
	}

	var payload chatPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", response.StatusCode(), err)
	}
	if payload.Response == nil {
		return "", fmt.Errorf("status %d: %w", response.StatusCode(), errNoAnswerField)
	}

	var answer *string
	if err := json.Unmarshal(payload.Response, &answer); err != nil {
		return "", fmt.Errorf("decode response field: %w", err)
	}
	if answer == nil {
		return "", fmt.Errorf("status %d: %w", response.StatusCode(), errNoAnswerField)
	}
	return *answer, nil
}
