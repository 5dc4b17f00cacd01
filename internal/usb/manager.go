package usb

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/metrics"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
)

// 消息类型，与源协议的 what 值保持一致。
const (
	whatSendToHead   = 0x01
	whatSendToBottom = 0x02
	whatSendToPoint  = 0x04
)

// failureThreshold 连续失败多少次触发一次关闭+重开。
// 无退避、无上限：管理器永远不会放弃一个目的地。
const failureThreshold = 10

// Config 传输层配置。
type Config struct {
	VendorID        uint16
	HeadProductID   uint16
	BottomProductID uint16

	// WriteRate 每秒批量写上限，0 表示不限流。
	WriteRate  float64
	WriteBurst int
}

// message 队列中的发送单元。入队即拷贝，出队后归 worker 所有。
type message struct {
	what int
	id   uuid.UUID
	data []byte
}

// endpointSet 单个逻辑目的地的传输状态。
// port 与 failCount 仅由 worker 触达；对外快照经 atomic 字段发布。
type endpointSet struct {
	name string
	pid  uint16

	port      Port
	failCount int

	connected atomic.Bool
	failures  atomic.Int32
}

// Manager 双 MCU 传输管理器：持有 head/bottom 两个逻辑目的地，
// 单个后台 worker 串行消费 FIFO 发送队列并执行阻塞批量写，
// 保证任意时刻本进程至多一笔在途传输。
type Manager struct {
	vid     uint16
	opener  Opener
	logger  *zap.Logger
	appm    *metrics.AppMetrics
	limiter *rate.Limiter

	mu      sync.Mutex
	cond    *sync.Cond // 队列非空或关闭
	idle    *sync.Cond // 队列已清空
	queue   []message
	running bool
	done    chan struct{}

	head   endpointSet
	bottom endpointSet
}

// Option Manager 可选配置。
type Option func(*Manager)

// WithLogger 安装日志器。
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics 安装业务指标。
func WithMetrics(appm *metrics.AppMetrics) Option {
	return func(m *Manager) { m.appm = appm }
}

// New 创建管理器并启动后台 worker。设备句柄按需懒打开：
// 首次向某目的地发送时才尝试枚举。
func New(cfg Config, opener Opener, opts ...Option) *Manager {
	m := &Manager{
		vid:    cfg.VendorID,
		opener: opener,
		logger: zap.NewNop(),
		done:   make(chan struct{}),
		head:   endpointSet{name: "head", pid: cfg.HeadProductID},
		bottom: endpointSet{name: "bottom", pid: cfg.BottomProductID},
	}
	for _, opt := range opts {
		opt(m)
	}
	if cfg.WriteRate > 0 {
		burst := cfg.WriteBurst
		if burst <= 0 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(cfg.WriteRate), burst)
	}
	m.cond = sync.NewCond(&m.mu)
	m.idle = sync.NewCond(&m.mu)
	m.running = true
	go m.sendLoop()
	return m
}

// SendToHead 入队一帧发往头部 MCU。异步：入队即返回。
func (m *Manager) SendToHead(frame []byte) { m.enqueue(whatSendToHead, "head", frame) }

// SendToBottom 入队一帧发往底部 MCU。异步：入队即返回。
func (m *Manager) SendToBottom(frame []byte) { m.enqueue(whatSendToBottom, "bottom", frame) }

// SendToPoint 入队一个路由缓冲（帧 + 尾部路由字节）。
// worker 按尾字节选路：0x01 头、0x02 底、0x03 先头后底。
// 这是唯一支持广播的发送路径。
func (m *Manager) SendToPoint(routed []byte) { m.enqueue(whatSendToPoint, "point", routed) }

func (m *Manager) enqueue(what int, kind string, data []byte) {
	msg := message{what: what, id: uuid.New(), data: append([]byte(nil), data...)}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		m.logger.Debug("enqueue after close, dropping", zap.String("kind", kind))
		return
	}
	m.queue = append(m.queue, msg)
	depth := len(m.queue)
	m.cond.Signal()
	m.mu.Unlock()

	if m.appm != nil {
		m.appm.EnqueueTotal.WithLabelValues(kind).Inc()
		m.appm.QueueDepth.Set(float64(depth))
	}
	m.logger.Debug("message enqueued",
		zap.String("kind", kind),
		zap.String("msg_id", msg.id.String()),
		zap.Int("bytes", len(msg.data)),
		zap.Int("queue_depth", depth))
}

// Flush 阻塞直到发送队列清空。只保证队列排空；
// 正在写出的那一条不在等待范围内（发送本就是尽力而为）。
func (m *Manager) Flush() {
	m.mu.Lock()
	for len(m.queue) > 0 && m.running {
		m.idle.Wait()
	}
	m.mu.Unlock()
}

// Close 停止 worker 并关闭两个设备句柄。队列中未消费的消息被丢弃。
func (m *Manager) Close() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.cond.Broadcast()
	m.idle.Broadcast()
	m.mu.Unlock()

	<-m.done

	// worker 已退出，此处可安全触达 endpointSet
	m.closeDevice(&m.head)
	m.closeDevice(&m.bottom)
	return nil
}

// DeviceStatus 单目的地状态快照。
type DeviceStatus struct {
	Connected bool `json:"connected"`
	Failures  int  `json:"failures"`
}

// Status 管理器状态快照。
type Status struct {
	Head       DeviceStatus `json:"head"`
	Bottom     DeviceStatus `json:"bottom"`
	QueueDepth int          `json:"queue_depth"`
}

// Status 返回当前连接与队列状态。
func (m *Manager) Status() Status {
	m.mu.Lock()
	depth := len(m.queue)
	m.mu.Unlock()
	return Status{
		Head: DeviceStatus{
			Connected: m.head.connected.Load(),
			Failures:  int(m.head.failures.Load()),
		},
		Bottom: DeviceStatus{
			Connected: m.bottom.connected.Load(),
			Failures:  int(m.bottom.failures.Load()),
		},
		QueueDepth: depth,
	}
}

// sendLoop worker 主循环：队列空则休眠，出队后先释放锁再做 I/O，
// 保证生产者永远不会被在途 USB 传输阻塞。
func (m *Manager) sendLoop() {
	defer close(m.done)
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && m.running {
			m.cond.Wait()
		}
		if !m.running {
			m.mu.Unlock()
			return
		}
		msg := m.queue[0]
		m.queue = m.queue[1:]
		depth := len(m.queue)
		if depth == 0 {
			m.idle.Broadcast()
		}
		m.mu.Unlock()

		if m.appm != nil {
			m.appm.QueueDepth.Set(float64(depth))
		}

		switch msg.what {
		case whatSendToHead:
			m.write(&m.head, msg.data, msg.id)
		case whatSendToBottom:
			m.write(&m.bottom, msg.data, msg.id)
		case whatSendToPoint:
			m.dispatchPoint(msg)
		}
	}
}

// dispatchPoint 剥离尾部路由字节并按三路标签分发。
// 广播顺序写 head、bottom，首写失败不影响第二写；
// 两次写在队列视角下是原子的，中间不会穿插其他消息。
func (m *Manager) dispatchPoint(msg message) {
	frame, tag, err := sanbot.SplitPointTag(msg.data)
	if err != nil {
		m.drop(msg, "routed buffer too short")
		return
	}

	switch tag {
	case sanbot.PointHead:
		m.write(&m.head, frame, msg.id)
	case sanbot.PointBottom:
		m.write(&m.bottom, frame, msg.id)
	case sanbot.PointBroadcast:
		if m.appm != nil {
			m.appm.BroadcastTotal.Inc()
		}
		m.write(&m.head, frame, msg.id)
		m.write(&m.bottom, frame, msg.id)
	default:
		m.drop(msg, "unknown point tag")
	}
}

func (m *Manager) drop(msg message, reason string) {
	if m.appm != nil {
		m.appm.DroppedTotal.Inc()
	}
	m.logger.Warn("message dropped",
		zap.String("msg_id", msg.id.String()),
		zap.String("reason", reason))
}

// write 向目的地执行一次批量写。句柄缺失时先尝试打开；
// 出错或零字节传输都计入失败，达到阈值触发关闭+重开。
func (m *Manager) write(dev *endpointSet, buf []byte, id uuid.UUID) {
	if len(buf) == 0 {
		return
	}

	if dev.port == nil {
		m.openDevice(dev)
	}
	if dev.port == nil {
		m.recordFailure(dev)
		return
	}

	if m.limiter != nil {
		_ = m.limiter.Wait(context.Background())
	}

	n, err := dev.port.Write(buf)
	if err != nil || n <= 0 {
		m.logger.Warn("bulk write failed",
			zap.String("dest", dev.name),
			zap.String("msg_id", id.String()),
			zap.Int("transferred", n),
			zap.Error(err))
		m.recordFailure(dev)
		return
	}

	dev.failCount = 0
	dev.failures.Store(0)
	if m.appm != nil {
		m.appm.BulkWriteTotal.WithLabelValues(dev.name, "ok").Inc()
	}
	m.logger.Debug("bulk write ok",
		zap.String("dest", dev.name),
		zap.String("msg_id", id.String()),
		zap.Int("bytes", n))
}

// recordFailure 失败计数。计数到达阈值整倍数时执行一轮关闭+重开；
// 固定间隔策略：第 10 次失败无条件触发，与时间无关。
func (m *Manager) recordFailure(dev *endpointSet) {
	dev.failCount++
	dev.failures.Store(int32(dev.failCount))
	if m.appm != nil {
		m.appm.BulkWriteTotal.WithLabelValues(dev.name, "error").Inc()
	}

	if dev.failCount%failureThreshold == 0 {
		m.logger.Info("failure threshold reached, recycling device",
			zap.String("dest", dev.name),
			zap.Int("failures", dev.failCount))
		if m.appm != nil {
			m.appm.ReconnectTotal.WithLabelValues(dev.name).Inc()
		}
		m.closeDevice(dev)
		m.openDevice(dev)
	}
}

// openDevice 枚举并认领目的地设备。失败不报错：目的地保持断开，
// 由后续发送再次触发尝试。
func (m *Manager) openDevice(dev *endpointSet) {
	port, err := m.opener.Open(m.vid, dev.pid)
	if err != nil {
		m.logger.Debug("open device failed",
			zap.String("dest", dev.name),
			zap.Uint16("pid", dev.pid),
			zap.Error(err))
		return
	}
	dev.port = port
	dev.failCount = 0
	dev.failures.Store(0)
	dev.connected.Store(true)
	m.logger.Info("device opened",
		zap.String("dest", dev.name),
		zap.Uint16("pid", dev.pid))
}

func (m *Manager) closeDevice(dev *endpointSet) {
	if dev.port != nil {
		if err := dev.port.Close(); err != nil {
			m.logger.Warn("close device failed",
				zap.String("dest", dev.name),
				zap.Error(err))
		}
		dev.port = nil
	}
	dev.failCount = 0
	dev.failures.Store(0)
	dev.connected.Store(false)
}
