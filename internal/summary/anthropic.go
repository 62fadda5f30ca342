package summary

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

const coachSystemPrompt = "You are a productivity coach analyzing daily task performance."

// AnthropicConfig configures the model-backed summary provider.
type AnthropicConfig struct {
	// Model is the Claude model id. Empty selects the default; Bedrock
	// deployments pass the inference-profile id directly.
	Model string
	// MaxTokens bounds the response length.
	MaxTokens int
	// APIKey is the Anthropic API key. Empty falls back to the
	// ANTHROPIC_API_KEY environment variable.
	APIKey string
	// UseAWSBedrock routes calls through AWS Bedrock instead of the
	// direct API.
	UseAWSBedrock bool
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS shared-config profile.
	AWSProfile string
	// Timeout caps each Summarize call independently of the caller's
	// context.
	Timeout time.Duration
	// RateLimit is the sustained calls-per-second budget. Zero or
	// negative disables limiting.
	RateLimit float64
}

// Anthropic asks a Claude model for the report summary. Failures are
// returned to the caller, which degrades to the Template provider.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	limiter   *rate.Limiter
	log       *zap.Logger
}

// NewAnthropic builds the provider. With UseAWSBedrock set it loads the
// default AWS config chain; otherwise it needs an API key from the config
// or the environment.
func NewAnthropic(cfg AnthropicConfig, log *zap.Logger) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}, nil
}

// Summarize sends the report prompt and returns the model's text. The call
// is bounded by the configured timeout and the shared rate limiter.
func (a *Anthropic) Summarize(ctx context.Context, metrics models.ProductivityMetrics, tasks []models.TaskSummary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("summary rate limit: %w", err)
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: coachSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(reportPrompt(metrics, tasks))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary call: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("summary call returned no text")
	}

	a.log.Debug("model summary generated",
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens))
	return text, nil
}
