package health

import (
	"context"
	"time"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/usb"
)

// StatusReporter 传输层状态来源（由 usb.Manager 实现）
type StatusReporter interface {
	Status() usb.Status
}

// USBChecker 检查头部/底部 MCU 串口连接状态。
// 两路均断开视为 Unhealthy；仅一路断开视为 Degraded（另一路仍可下发指令）。
type USBChecker struct {
	reporter StatusReporter
}

// NewUSBChecker 创建 USB 检查器
func NewUSBChecker(reporter StatusReporter) *USBChecker {
	return &USBChecker{reporter: reporter}
}

func (c *USBChecker) Name() string {
	return "usb"
}

func (c *USBChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	st := c.reporter.Status()

	details := map[string]interface{}{
		"head_connected":   st.Head.Connected,
		"head_failures":    st.Head.Failures,
		"bottom_connected": st.Bottom.Connected,
		"bottom_failures":  st.Bottom.Failures,
		"queue_depth":      st.QueueDepth,
	}

	result := CheckResult{
		Status:  StatusHealthy,
		Details: details,
		Latency: time.Since(start),
	}

	switch {
	case !st.Head.Connected && !st.Bottom.Connected:
		result.Status = StatusUnhealthy
		result.Message = "head and bottom MCU both disconnected"
	case !st.Head.Connected:
		result.Status = StatusDegraded
		result.Message = "head MCU disconnected"
	case !st.Bottom.Connected:
		result.Status = StatusDegraded
		result.Message = "bottom MCU disconnected"
	}

	return result
}
