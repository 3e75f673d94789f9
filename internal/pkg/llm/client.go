package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/model"
)

var (
	// ErrUnavailable 未配置 API Key，能力不可用（配置态，非运行错误）
	ErrUnavailable = errors.New("llm: api key not configured")
	// ErrMalformedResponse 服务返回了无法解析的内容（与传输失败区分）
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// Client 外部文本生成服务适配器。
// 由进程启动时显式构造并注入，不做懒加载单例。
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(cfg *config.AIConfig) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if cfg.APIKey != "" {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		c.api = openai.NewClientWithConfig(apiCfg)
	}
	return c
}

// Available 能力是否可用；调用方必须把不可用与调用失败同等对待
func (c *Client) Available() bool {
	return c != nil && c.api != nil
}

type explanationPayload struct {
	Description string `json:"description"`
	Fix         string `json:"fix"`
}

const explainSystemPrompt = "You are a code review assistant. Always respond with a single JSON object containing the keys \"description\" and \"fix\"."

// Explain 生成一条说明/修复建议。单次调用，不重试。
func (c *Client) Explain(ctx context.Context, prompt string) (string, string, error) {
	if !c.Available() {
		return "", "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: explainSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", "", fmt.Errorf("llm: request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", ErrMalformedResponse
	}

	var payload explanationPayload
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", "", ErrMalformedResponse
	}
	if payload.Description == "" || payload.Fix == "" {
		return "", "", ErrMalformedResponse
	}

	return payload.Description, payload.Fix, nil
}

const classifySystemPrompt = "You are a code performance classifier. Respond with a single JSON object {\"label\": \"efficient\"|\"inefficient\", \"score\": <confidence between 0 and 1>}."

// ClassifyChunk 对单个代码块做性能分类。
// 任何失败返回 nil：该块不产出结果，不参与性能评分。
func (c *Client) ClassifyChunk(ctx context.Context, chunk string) []model.ChunkScore {
	if !c.Available() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: chunk},
		},
		Temperature: 0,
	})
	if err != nil || len(resp.Choices) == 0 {
		return nil
	}

	// score 缺省时按中性置信度 0.5 处理；越界视为畸形响应，整块丢弃
	var payload struct {
		Label string   `json:"label"`
		Score *float64 `json:"score"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil
	}
	if payload.Label == "" {
		return nil
	}

	score := 0.5
	if payload.Score != nil {
		if *payload.Score < 0 || *payload.Score > 1 {
			return nil
		}
		score = *payload.Score
	}
	return []model.ChunkScore{{Label: payload.Label, Score: score}}
}
