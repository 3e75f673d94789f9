package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// 出站消息类型
const (
	MessageMetricUpdate      = "metric_update"
	MessagePeriodicUpdate    = "periodic_update"
	MessageComponentAnalysis = "component_analysis"
	MessageJobUpdate         = "job_update"
	MessageSubscribed        = "subscribed"
)

// Hub 按项目分组的广播中心。
// 一个连接只属于一个项目组，组成员关系仅存在于连接生命周期内。
type Hub struct {
	groups map[int64]map[*Client]struct{}
	mu     sync.RWMutex
}

// Client 单个 WebSocket 连接
type Client struct {
	ID        string
	ProjectID int64
	UserID    int64
	Conn      *websocket.Conn

	mu sync.Mutex // 写锁，防止并发写入

	// subscribe_metrics 上报的过滤偏好。仅记录，当前契约不参与投递过滤。
	filterMu    sync.Mutex
	metricTypes []string

	done      chan struct{}
	closeOnce sync.Once
}

// Message 出站消息信封
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewClient(projectID, userID int64, conn *websocket.Conn) *Client {
	return &Client{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		Conn:      conn,
		done:      make(chan struct{}),
	}
}

// Done 连接关闭信号，周期任务监听此通道退出
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close 标记连接关闭，幂等
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// SetMetricTypes 记录该连接的指标订阅偏好
func (c *Client) SetMetricTypes(types []string) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.metricTypes = types
}

// MetricTypes 返回已记录的订阅偏好副本
func (c *Client) MetricTypes() []string {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	out := make([]string, len(c.metricTypes))
	copy(out, c.metricTypes)
	return out
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[int64]map[*Client]struct{}),
	}
}

// Join 将连接加入其项目组
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[client.ProjectID] == nil {
		h.groups[client.ProjectID] = make(map[*Client]struct{})
	}
	h.groups[client.ProjectID][client] = struct{}{}

	log.Printf("Client %s joined project %d group, members: %d",
		client.ID, client.ProjectID, len(h.groups[client.ProjectID]))
}

// Leave 将连接移出其项目组，幂等（不在组内时为空操作）
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.groups[client.ProjectID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.groups, client.ProjectID)
		}
	}
}

// Broadcast 向项目组内所有连接投递消息，except 不为空时跳过该连接。
// 尽力投递：单个成员写失败只记录日志并移出组，不影响其余成员。
func (h *Hub) Broadcast(projectID int64, msg *Message, except *Client) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	members, ok := h.groups[projectID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	// 复制一份引用，避免长时间持锁
	clients := make([]*Client, 0, len(members))
	for c := range members {
		if c != except {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Printf("Broadcast write error for project %d client %s: %v", projectID, c.ID, err)
			h.Leave(c)
		}
	}
	return nil
}

// SendTo 向单个连接发送消息
func (h *Hub) SendTo(client *Client, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.write(data)
}

func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// GroupSize 项目组当前成员数
func (h *Hub) GroupSize(projectID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[projectID])
}

// ConnectionCount 所有组的连接总数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, members := range h.groups {
		total += len(members)
	}
	return total
}
