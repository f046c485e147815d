// Package classifier wraps the hosted language model behind a fixed
// text-in, structured-JSON-out contract. There is no retry and no caching:
// a failed call surfaces immediately and the caller decides what to do.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrUnavailable covers transport failures and timeouts against the
	// upstream model service.
	ErrUnavailable = errors.New("classifier service unavailable")

	// ErrMalformedOutput means the model replied but not with the expected
	// JSON structure.
	ErrMalformedOutput = errors.New("classifier returned malformed output")
)

// defaultSeverity is substituted when the model flags a concern but omits
// the matching severity score.
const defaultSeverity = 0.5

const systemPrompt = `You are an assistant that analyzes text messages and social media posts ` +
	`for potential bullying AND signs of depressive thoughts or ideation.

You will receive a text and must determine:
1. If it is bullying. If yes, set isBullying to true and provide a bullyingSeverity (0-1). Otherwise set isBullying to false.
2. If it shows signs of depressive content. If yes, set isDepressive to true and provide a depressiveSeverity (0-1). Otherwise set isDepressive to false.

Provide a single explanation covering your reasoning for both aspects. If neither is detected, explain why the text is considered neutral or positive.

Respond with a JSON object with exactly these keys:
{"isBullying": bool, "bullyingSeverity": number, "isDepressive": bool, "depressiveSeverity": number, "explanation": string}`

// Client analyzes a piece of text for concerning content.
type Client interface {
	Classify(ctx context.Context, text string) (models.ClassificationResult, error)
	IsConfigured() bool
}

// OpenAIClient implements Client against an OpenAI-compatible chat API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	log         *logger.Logger
}

func NewOpenAIClient(cfg config.AIConfig, log *logger.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		log:         log,
	}, nil
}

func (c *OpenAIClient) IsConfigured() bool {
	return c.client != nil
}

// Classify sends the text to the model and decodes the structured verdict.
func (c *OpenAIClient) Classify(ctx context.Context, text string) (models.ClassificationResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debug("Classifying text: %d chars, model=%s", len(text), c.model)

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Text: " + text},
		},
	}

	resp, err := c.client.CreateChatCompletion(timeoutCtx, req)
	if err != nil {
		c.log.Error("Classifier call failed: %v", err)
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("%w: no choices returned", ErrMalformedOutput)
	}

	result, err := decodeResult(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Error("Classifier output rejected: %v", err)
		return models.ClassificationResult{}, err
	}

	c.log.Info("Classification done: bullying=%t depressive=%t tokens=%d",
		result.IsBullying, result.IsDepressive, resp.Usage.TotalTokens)

	return result, nil
}

// decodeResult parses the model output and normalizes it: positive flags
// always end up with a severity in [0,1], defaulting to 0.5 when the model
// omitted one.
func decodeResult(raw string) (models.ClassificationResult, error) {
	raw = strings.TrimSpace(raw)

	// Some models wrap JSON in a markdown fence despite instructions.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var result models.ClassificationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	normalize(&result)
	return result, nil
}

func normalize(r *models.ClassificationResult) {
	if r.IsBullying {
		r.BullyingSeverity = clampSeverity(r.BullyingSeverity)
	} else {
		r.BullyingSeverity = nil
	}

	if r.IsDepressive {
		r.DepressiveSeverity = clampSeverity(r.DepressiveSeverity)
	} else {
		r.DepressiveSeverity = nil
	}
}

func clampSeverity(s *float64) *float64 {
	if s == nil {
		v := defaultSeverity
		return &v
	}
	v := *s
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
