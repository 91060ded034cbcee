// Package llm 提供大模型文本生成客户端
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandeepreddy1606/ai-document-assistance/internal/config"
	apperrors "github.com/sandeepreddy1606/ai-document-assistance/pkg/errors"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/logger"
	"github.com/sandeepreddy1606/ai-document-assistance/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// completer 抽象单次模型调用，便于测试替换
type completer interface {
	complete(ctx context.Context, model, prompt string) (string, error)
}

// Client 文本生成客户端，按配置顺序逐一尝试候选模型
type Client struct {
	models    []string
	timeout   time.Duration
	available bool
	api       completer
}

// NewClient 创建生成客户端，APIKey 为空时进入占位模式
func NewClient(cfg *config.LLMConfig) *Client {
	c := &Client{
		models:  cfg.Models,
		timeout: cfg.Timeout,
	}
	if c.timeout <= 0 {
		c.timeout = 60 * time.Second
	}

	if cfg.APIKey == "" {
		logger.Warn(context.Background(), "LLM API key 未配置，进入占位内容模式")
		return c
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c.available = true
	c.api = &openaiCompleter{
		opts:        opts,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
	return c
}

// Available 是否具备真实调用能力
func (c *Client) Available() bool {
	return c.available
}

// Generate 依次尝试候选模型，返回第一个成功的结果
//
// 单个模型的超时或出错只记录调试日志，直接换下一个候选，
// 全部失败时返回 GenerationUnavailable。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.Generate",
		trace.WithAttributes(attribute.Int("llm.candidate_count", len(c.models))))
	defer span.End()

	if !c.available {
		return "", apperrors.ErrGenerationUnavailable
	}

	for _, model := range c.models {
		result, err := c.tryModel(ctx, model, prompt)
		if err != nil {
			logger.Debug(ctx, "模型调用失败，尝试下一个候选",
				"model", model,
				"error", err.Error(),
			)
			metrics.ModelFallbackTotal.WithLabelValues(model).Inc()
			continue
		}

		span.SetAttributes(attribute.String("llm.model", model))
		return stripCodeFences(result), nil
	}

	span.SetAttributes(attribute.Bool("llm.exhausted", true))
	return "", apperrors.ErrGenerationUnavailable
}

func (c *Client) tryModel(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.api.complete(ctx, model, prompt)
}

// stripCodeFences 去掉模型常见的 ```html / ``` 包裹标记
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```", "")
	return s
}

// openaiCompleter 基于 openai-go SDK 的 Chat Completions 实现
type openaiCompleter struct {
	opts        []option.RequestOption
	maxTokens   int
	temperature float64
}

func (o *openaiCompleter) complete(ctx context.Context, model, prompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	if o.temperature > 0 {
		params.Temperature = openai.Float(o.temperature)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}
