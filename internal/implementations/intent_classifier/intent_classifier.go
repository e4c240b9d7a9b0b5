package intentclassifier

import (
	"context"
	"errors"
	"fmt"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/intent"
	"remindbot/internal/core/domain/logging"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DEFAULT_BASE_URL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DEFAULT_MODEL    = "gemini-2.0-flash"
)

var ErrNoCompletion = errors.New("no completion received")

const systemPrompt = "You are a helpful reminder bot assistant. " +
	"Analyze the user's request to determine their intent " +
	"(ADD_REMINDER, LIST_REMINDERS, DELETE_REMINDER, EDIT_REMINDER, or UNKNOWN) " +
	"and extract relevant data according to the provided JSON schema. " +
	"Focus only on reminder-related tasks."

const schemaPrompt = "Reply with a single JSON object and nothing else, using this schema: " +
	`{"intent": "ADD_REMINDER|LIST_REMINDERS|DELETE_REMINDER|EDIT_REMINDER|UNKNOWN", ` +
	`"data": {"task": string|null, "time": string|null, "target": string|null, ` +
	`"updates": {"task": string|null, "time": string|null}|null}}. ` +
	"Keep time expressions exactly as the user wrote them."

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Classifier asks an OpenAI compatible chat completion API to classify a
// message into the intent JSON shape.
type Classifier struct {
	log     logging.Logger
	client  openai.Client
	model   string
	timeout time.Duration
}

func New(log logging.Logger, config Config, opts ...option.RequestOption) *Classifier {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if config.APIKey == "" {
		panic(e.NewEmptyArgumentError("config.APIKey"))
	}
	if config.BaseURL == "" {
		config.BaseURL = DEFAULT_BASE_URL
	}
	if config.Model == "" {
		config.Model = DEFAULT_MODEL
	}
	opts = append(
		[]option.RequestOption{option.WithAPIKey(config.APIKey), option.WithBaseURL(config.BaseURL)},
		opts...,
	)
	return &Classifier{
		log:     log,
		client:  openai.NewClient(opts...),
		model:   config.Model,
		timeout: config.Timeout,
	}
}

func (c *Classifier) Classify(ctx context.Context, message string) (intent.Intent, error) {
	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt + " " + schemaPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(message),
					},
				},
			},
		},
		Temperature: openai.Float(0),
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("could not classify message: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoCompletion
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	classified, err := intent.Decode([]byte(content))
	if err != nil {
		c.log.Warning(
			ctx,
			"Classifier returned malformed intent.",
			logging.Entry("content", content),
			logging.Entry("err", err),
		)
		return nil, err
	}
	return classified, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
