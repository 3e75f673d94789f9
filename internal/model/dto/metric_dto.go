package dto

// RecordMetricRequest 指标上报（REST 与 WebSocket 共用）
type RecordMetricRequest struct {
	MetricType string  `json:"metric_type" binding:"required"`
	Value      float64 `json:"value"`
	URL        string  `json:"url"`
	UserAgent  string  `json:"user_agent"`
}

// ComponentAnalysisRequest 组件运行时数据上报
type ComponentAnalysisRequest struct {
	ComponentName string  `json:"component_name" binding:"required"`
	FilePath      string  `json:"file_path"`
	RenderTime    float64 `json:"render_time"`
	MemoryUsage   float64 `json:"memory_usage"`
	ReRenderCount int     `json:"re_render_count"`
	PropsCount    int     `json:"props_count"`
	ChildrenCount int     `json:"children_count"`
}

// SubscribeMetricsRequest 连接级的指标订阅偏好
type SubscribeMetricsRequest struct {
	MetricTypes []string `json:"metric_types"`
}
