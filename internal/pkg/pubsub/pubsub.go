package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelJobEvents = "job_events"
)

// JobEventMessage 任务进度消息，由 worker 发布、server 转发到项目广播组
type JobEventMessage struct {
	Type      string `json:"type"`
	ProjectID int64  `json:"project_id"`
	UserID    int64  `json:"user_id"`
	JobID     int64  `json:"job_id"`
	JobType   string `json:"job_type"`
	Status    string `json:"status"`
	Step      string `json:"step"`
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// 进度阶段常量
const (
	StepChunking  = "chunking"
	StepAnalyzing = "analyzing"
	StepDetecting = "detecting"
	StepSaving    = "saving"
	StepDone      = "done"
)

// 阶段对应的进度百分比
var StepProgress = map[string]int{
	StepChunking:  20,
	StepAnalyzing: 50,
	StepDetecting: 50,
	StepSaving:    80,
	StepDone:      100,
}

// 阶段对应的消息
var StepMessages = map[string]string{
	StepChunking:  "正在切分代码",
	StepAnalyzing: "正在计算评分",
	StepDetecting: "正在检测模式",
	StepSaving:    "正在保存结果",
	StepDone:      "分析完成",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishJobEvent 发布任务进度消息
func (p *Publisher) PublishJobEvent(ctx context.Context, msg *JobEventMessage) error {
	msg.Type = "job_update"

	// 自动填充进度和消息
	if msg.Progress == 0 && msg.Step != "" {
		if progress, ok := StepProgress[msg.Step]; ok {
			msg.Progress = progress
		}
	}
	if msg.Message == "" && msg.Step != "" {
		if message, ok := StepMessages[msg.Step]; ok {
			msg.Message = message
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	return p.client.Publish(ctx, ChannelJobEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅任务进度消息，阻塞直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*JobEventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelJobEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event JobEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
