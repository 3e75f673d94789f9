package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/pkg/jwt"
	"github.com/perfmaster/perf_go_server/internal/pkg/ws"
	"github.com/perfmaster/perf_go_server/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要验证 Origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// 入站消息类型
const (
	inboundMetricUpdate      = "metric_update"
	inboundSubscribeMetrics  = "subscribe_metrics"
	inboundComponentAnalysis = "component_analysis"
)

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WebSocketHandler struct {
	hub              *ws.Hub
	metricService    *service.MetricService
	projectService   *service.ProjectService
	jwtSecret        string
	snapshotInterval time.Duration
	snapshotCount    int
}

func NewWebSocketHandler(
	hub *ws.Hub,
	metricService *service.MetricService,
	projectService *service.ProjectService,
	jwtSecret string,
	realtimeCfg config.RealtimeConfig,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:              hub,
		metricService:    metricService,
		projectService:   projectService,
		jwtSecret:        jwtSecret,
		snapshotInterval: time.Duration(realtimeCfg.SnapshotIntervalSeconds) * time.Second,
		snapshotCount:    realtimeCfg.SnapshotMetricCount,
	}
}

// Handle WebSocket 连接处理，一个连接对应一个项目组
// GET /api/v1/ws?token=xxx&project_id=1
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	// 归属校验在连接建立时做一次，组内消息不再重复校验
	if _, err := h.projectService.Get(claims.UserID, projectID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "project not accessible"})
		return
	}

	// 升级连接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(projectID, claims.UserID, conn)
	h.hub.Join(client)

	go h.periodicUpdates(client)
	go h.readLoop(client)
}

// readLoop 读取入站消息直到连接断开。
// 断开时先停周期任务、再退出广播组，最后关闭连接，避免向已关闭的连接写入。
func (h *WebSocketHandler) readLoop(client *ws.Client) {
	defer func() {
		client.Close()
		h.hub.Leave(client)
		client.Conn.Close()
	}()

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}
		h.dispatch(client, data)
	}
}

func (h *WebSocketHandler) dispatch(client *ws.Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Client %s: unreadable message: %v", client.ID, err)
		return
	}

	switch msg.Type {
	case inboundMetricUpdate:
		h.handleMetricUpdate(client, msg.Data)
	case inboundSubscribeMetrics:
		h.handleSubscribeMetrics(client, msg.Data)
	case inboundComponentAnalysis:
		h.handleComponentAnalysis(client, msg.Data)
	default:
		log.Printf("Client %s: unknown message type %q", client.ID, msg.Type)
	}
}

// handleMetricUpdate 持久化指标并广播给组内其他连接
func (h *WebSocketHandler) handleMetricUpdate(client *ws.Client, data json.RawMessage) {
	var req dto.RecordMetricRequest
	if err := json.Unmarshal(data, &req); err != nil || req.MetricType == "" {
		log.Printf("Client %s: invalid metric payload", client.ID)
		return
	}

	// 项目归属在 Handle 建立连接时已校验
	metric, err := h.metricService.RecordForProject(client.ProjectID, &req)
	if err != nil {
		log.Printf("Client %s: failed to save metric: %v", client.ID, err)
		return
	}

	h.hub.Broadcast(client.ProjectID, &ws.Message{
		Type: ws.MessageMetricUpdate,
		Data: metric,
	}, client)
}

// handleSubscribeMetrics 记录连接级订阅偏好。
// 偏好只存在连接本地状态里，当前契约不参与投递过滤。
func (h *WebSocketHandler) handleSubscribeMetrics(client *ws.Client, data json.RawMessage) {
	var req dto.SubscribeMetricsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Printf("Client %s: invalid subscribe payload", client.ID)
		return
	}

	client.SetMetricTypes(req.MetricTypes)

	h.hub.SendTo(client, &ws.Message{
		Type: ws.MessageSubscribed,
		Data: gin.H{"metric_types": req.MetricTypes},
	})
}

// handleComponentAnalysis 持久化组件数据并广播给组内其他连接
func (h *WebSocketHandler) handleComponentAnalysis(client *ws.Client, data json.RawMessage) {
	var req dto.ComponentAnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil || req.ComponentName == "" {
		log.Printf("Client %s: invalid component payload", client.ID)
		return
	}

	analysis, err := h.metricService.RecordComponentForProject(client.ProjectID, &req)
	if err != nil {
		log.Printf("Client %s: failed to save component analysis: %v", client.ID, err)
		return
	}

	h.hub.Broadcast(client.ProjectID, &ws.Message{
		Type: ws.MessageComponentAnalysis,
		Data: analysis,
	}, client)
}

// periodicUpdates 周期快照：按固定间隔推送项目最近的指标。
// 连接关闭信号到达或写失败时退出。
func (h *WebSocketHandler) periodicUpdates(client *ws.Client) {
	ticker := time.NewTicker(h.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done():
			return
		case <-ticker.C:
			metrics, err := h.metricService.ListRecent(client.ProjectID, h.snapshotCount)
			if err != nil {
				log.Printf("Client %s: failed to load snapshot: %v", client.ID, err)
				continue
			}

			msg := &ws.Message{
				Type: ws.MessagePeriodicUpdate,
				Data: gin.H{
					"metrics":   metrics,
					"timestamp": time.Now().UnixMilli(),
				},
			}
			if err := h.hub.SendTo(client, msg); err != nil {
				return
			}
		}
	}
}
