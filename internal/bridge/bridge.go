package bridge

import (
	"go.uber.org/zap"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/metrics"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
)

// Transport 帧下发接口（由 usb.Manager 实现）
type Transport interface {
	SendToPoint(routed []byte)
	Flush()
}

// Bridge 指令封装层：目录命令 -> 完整帧 -> 传输队列。
// 所有入队均为非阻塞；帧编码失败（载荷超长）才返回错误。
type Bridge struct {
	transport Transport
	ack       byte
	logger    *zap.Logger
	metrics   *metrics.AppMetrics
}

// Option Bridge 可选配置
type Option func(*Bridge)

// WithLogger 注入日志器
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithMetrics 注入业务指标
func WithMetrics(m *metrics.AppMetrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// New 创建 Bridge。ack 为每帧的应答标志字节。
func New(transport Transport, ack byte, opts ...Option) *Bridge {
	b := &Bridge{
		transport: transport,
		ack:       ack,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Send 编码并入队一条目录命令
func (b *Bridge) Send(cmd catalog.Command) error {
	return b.SendRaw(cmd.Payload, cmd.Tag)
}

// SendRaw 以任意载荷与路由标记编码入队，使用默认应答标志
func (b *Bridge) SendRaw(payload sanbot.CommandPayload, tag byte) error {
	return b.SendRawWithAck(payload, tag, b.ack)
}

// SendRawWithAck 同 SendRaw，但允许覆盖应答标志字节
func (b *Bridge) SendRawWithAck(payload sanbot.CommandPayload, tag byte, ack byte) error {
	routed, err := sanbot.AssembleRouted(payload, ack, tag)
	if err != nil {
		b.logger.Error("assemble frame failed",
			zap.Uint8("mode", payload.Mode), zap.Error(err))
		return err
	}
	if b.metrics != nil {
		b.metrics.FramesEncoded.Inc()
	}
	b.logger.Debug("frame enqueued",
		zap.Uint8("mode", payload.Mode),
		zap.Uint8("tag", tag),
		zap.Int("len", len(routed)))
	b.transport.SendToPoint(routed)
	return nil
}

// Flush 等待发送队列排空
func (b *Bridge) Flush() {
	b.transport.Flush()
}

// Wheel 轮组运动（无角度形式）
func (b *Bridge) Wheel(action catalog.WheelAction, speed byte, duration uint16, durationMode byte) error {
	return b.Send(catalog.WheelNoAngle(action, speed, duration, durationMode))
}

// WheelAngle 轮组相对角度转动
func (b *Bridge) WheelAngle(action catalog.WheelAction, speed byte, angle uint16) error {
	return b.Send(catalog.WheelRelativeAngle(action, speed, angle))
}

// WheelDistance 轮组定距运动
func (b *Bridge) WheelDistance(action catalog.WheelAction, speed byte, distance uint16) error {
	return b.Send(catalog.WheelDistance(action, speed, distance))
}

// Arm 手臂运动（无角度形式）
func (b *Bridge) Arm(part catalog.ArmPart, speed byte, action catalog.ArmAction) error {
	return b.Send(catalog.ArmNoAngle(part, speed, action))
}

// ArmAngle 手臂相对角度运动
func (b *Bridge) ArmAngle(part catalog.ArmPart, speed byte, action catalog.ArmAction, angle uint16) error {
	return b.Send(catalog.ArmRelativeAngle(part, speed, action, angle))
}

// ArmAbsolute 手臂绝对角度运动
func (b *Bridge) ArmAbsolute(part catalog.ArmPart, speed byte, angle uint16) error {
	return b.Send(catalog.ArmAbsoluteAngle(part, speed, angle))
}

// Head 头部运动（无角度形式）
func (b *Bridge) Head(action catalog.HeadAction, speed byte) error {
	return b.Send(catalog.HeadNoAngle(action, speed))
}

// HeadAngle 头部相对角度运动
func (b *Bridge) HeadAngle(action catalog.HeadAction, angle uint16) error {
	return b.Send(catalog.HeadRelativeAngle(action, angle))
}

// HeadAbsolute 头部绝对角度运动
func (b *Bridge) HeadAbsolute(axis catalog.HeadAxis, angle uint16) error {
	return b.Send(catalog.HeadAbsoluteAngle(axis, angle))
}

// LED 灯效控制。路由按灯位决定：白灯广播、头灯走头部、其余走底部。
func (b *Bridge) LED(whichLight, switchMode, rate, randomCount byte) error {
	return b.Send(catalog.LED(whichLight, switchMode, rate, randomCount))
}

// Heartbeat 向指定 MCU 发送心跳
func (b *Bridge) Heartbeat(tag byte, switchMode byte, lsb, msb byte) error {
	return b.Send(catalog.Heartbeat(tag, switchMode, lsb, msb))
}

// BatteryQuery 电量查询（底部 MCU）
func (b *Bridge) BatteryQuery() error {
	return b.Send(catalog.BatteryQuery())
}

// GyroQuery 陀螺仪/罗盘状态查询
func (b *Bridge) GyroQuery(accelStatus, compassStatus int8) error {
	return b.Send(catalog.GyroQuery(accelStatus, compassStatus))
}

// TouchQuery 触摸传感器查询，路由按通道号决定
func (b *Bridge) TouchQuery(touchTurnal, touchInfo int8) error {
	return b.Send(catalog.TouchQuery(touchTurnal, touchInfo))
}

// ProjectorPower 投影仪开关（头部 MCU）
func (b *Bridge) ProjectorPower(on bool) error {
	return b.Send(catalog.ProjectorPower(on))
}

// MCUReset 复位指定 MCU
func (b *Bridge) MCUReset(tag byte, timeByte byte) error {
	return b.Send(catalog.MCUReset(tag, timeByte))
}

// MotorDefend 电机保护开关
func (b *Bridge) MotorDefend(whichPart byte, enable bool) error {
	return b.Send(catalog.MotorDefend(whichPart, enable))
}
