package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v5"

	"github.com/weftlabs/weft/internal/domain"
)

// Anthropic generates results through the Anthropic Messages API.
// Fields are ordered to minimize memory padding.
type Anthropic struct {
	client     anthropic.Client
	model      string
	maxTokens  int64
	maxRetries uint
}

var _ domain.Backend = (*Anthropic)(nil)

// NewAnthropic creates the hosted backend. The API key comes from the
// configuration when set, otherwise from ANTHROPIC_API_KEY.
func NewAnthropic(cfg domain.BackendConfig) *Anthropic {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	// The SDK retries internally as well; the outer loop owns retry
	// policy so the two must not multiply.
	opts = append(opts, option.WithMaxRetries(0))

	return &Anthropic{
		client:     anthropic.NewClient(opts...),
		model:      cfg.Model,
		maxTokens:  int64(cfg.MaxTokens),
		maxRetries: uint(max(cfg.MaxRetries, 0)),
	}
}

// Generate sends the conversation history plus the new prompt and
// returns the model's text output. Rate limits, timeouts and server
// errors are retried with bounded exponential backoff; client errors
// fail immediately.
func (a *Anthropic) Generate(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	operation := func() (string, error) {
		resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model),
			MaxTokens: a.maxTokens,
			Messages:  messages,
		})
		if err != nil {
			if retryable(err) {
				return "", err
			}
			return "", backoff.Permanent(err)
		}

		var text string
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		if text == "" {
			return "", backoff.Permanent(fmt.Errorf("%w: empty response from model", domain.ErrGeneration))
		}
		return text, nil
	}

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(a.maxRetries+1),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return text, nil
}

// retryable reports whether a request failure is worth retrying:
// rate limits, request timeouts, server-side errors and transient
// network failures. Anything else (auth, invalid request) is not.
func retryable(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == 429, apierr.StatusCode == 408:
			return true
		case apierr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
