package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 桥接器业务指标
type AppMetrics struct {
	FramesEncoded  prometheus.Counter     // 编码产出的帧数
	EnqueueTotal   *prometheus.CounterVec // labels: kind=head|bottom|point
	QueueDepth     prometheus.Gauge       // 当前发送队列深度
	BulkWriteTotal *prometheus.CounterVec // labels: dest=head|bottom, result=ok|error
	ReconnectTotal *prometheus.CounterVec // labels: dest
	BroadcastTotal prometheus.Counter     // 广播分发次数
	DroppedTotal   prometheus.Counter     // 因路由缓冲非法被丢弃的消息数
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		FramesEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sanbot_frames_encoded_total",
			Help: "Total USB frames produced by the codec.",
		}),
		EnqueueTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sanbot_enqueue_total",
			Help: "Messages enqueued for transport by kind.",
		}, []string{"kind"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sanbot_queue_depth",
			Help: "Current depth of the send queue.",
		}),
		BulkWriteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sanbot_bulk_write_total",
			Help: "Bulk write attempts by destination and result.",
		}, []string{"dest", "result"}),
		ReconnectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sanbot_reconnect_total",
			Help: "Close+reopen cycles triggered by the failure threshold.",
		}, []string{"dest"}),
		BroadcastTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sanbot_broadcast_total",
			Help: "Broadcast fan-outs (head then bottom).",
		}),
		DroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sanbot_dropped_total",
			Help: "Messages dropped before write (malformed routed buffer).",
		}),
	}
	reg.MustRegister(m.FramesEncoded, m.EnqueueTotal, m.QueueDepth,
		m.BulkWriteTotal, m.ReconnectTotal, m.BroadcastTotal, m.DroppedTotal)
	return m
}
