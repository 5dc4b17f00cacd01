package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/usb"
)

// Commander 指令下发接口（由 bridge.Bridge 实现）
type Commander interface {
	Send(cmd catalog.Command) error
	SendRawWithAck(payload sanbot.CommandPayload, tag byte, ack byte) error
}

// StatusSource 传输层状态来源（由 usb.Manager 实现）
type StatusSource interface {
	Status() usb.Status
}

// Handler 控制 API 处理器
type Handler struct {
	commander Commander
	status    StatusSource
	ack       byte
	logger    *zap.Logger
}

// NewHandler 创建处理器。ack 为未显式指定时的默认应答标志。
func NewHandler(commander Commander, status StatusSource, ack byte, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{commander: commander, status: status, ack: ack, logger: logger}
}

// ---- 请求体 ----

// sendRequest 原始命令：mode + 有序字节序列（-1 表示缺省占位）
type sendRequest struct {
	Mode int    `json:"mode" binding:"required"`
	Data []int  `json:"data"`
	Tag  string `json:"tag" binding:"required"`
	Ack  *int   `json:"ack"`
}

type wheelRequest struct {
	Action       string `json:"action" binding:"required"`
	Speed        int    `json:"speed"`
	Duration     int    `json:"duration"`
	DurationMode int    `json:"durationMode"`
	Angle        *int   `json:"angle"`
	Distance     *int   `json:"distance"`
}

type headRequest struct {
	Action   string `json:"action"`
	Axis     string `json:"axis"`
	Speed    int    `json:"speed"`
	Angle    *int   `json:"angle"`
	Absolute bool   `json:"absolute"`
}

type armRequest struct {
	Part     string `json:"part" binding:"required"`
	Action   string `json:"action"`
	Speed    int    `json:"speed"`
	Angle    *int   `json:"angle"`
	Absolute bool   `json:"absolute"`
}

type ledRequest struct {
	Light  int `json:"light"`
	Switch int `json:"switch"`
	Rate   int `json:"rate"`
	Random int `json:"random"`
}

type heartbeatRequest struct {
	Target   string `json:"target" binding:"required"`
	Switch   int    `json:"switch"`
	Interval int    `json:"interval"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) accepted(c *gin.Context, err error) {
	if err != nil {
		h.logger.Warn("command rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func byteInRange(name string, v int) (byte, error) {
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%s out of range: %d", name, v)
	}
	return byte(v), nil
}

func u16InRange(name string, v int) (uint16, error) {
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("%s out of range: %d", name, v)
	}
	return uint16(v), nil
}

// ---- 处理器 ----

// Send 原始命令下发。data 中 -1 表示缺省字节，编码时被跳过。
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mode, err := byteInRange("mode", req.Mode)
	if err != nil {
		badRequest(c, err)
		return
	}
	tag, err := catalog.ParsePointTag(req.Tag)
	if err != nil {
		badRequest(c, err)
		return
	}
	ack := h.ack
	if req.Ack != nil {
		if ack, err = byteInRange("ack", *req.Ack); err != nil {
			badRequest(c, err)
			return
		}
	}

	ordered := make([]sanbot.Byte, 0, len(req.Data))
	for i, v := range req.Data {
		if v == -1 {
			ordered = append(ordered, sanbot.Absent())
			continue
		}
		b, err := byteInRange(fmt.Sprintf("data[%d]", i), v)
		if err != nil {
			badRequest(c, err)
			return
		}
		ordered = append(ordered, sanbot.B(b))
	}

	payload := sanbot.CommandPayload{Mode: mode, OrderedBytes: ordered}
	h.accepted(c, h.commander.SendRawWithAck(payload, tag, ack))
}

// Wheel 轮组控制。携带 distance 时走定距形式，携带 angle 时走角度形式。
func (h *Handler) Wheel(c *gin.Context) {
	var req wheelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	action, err := catalog.ParseWheelAction(req.Action)
	if err != nil {
		badRequest(c, err)
		return
	}
	speed, err := byteInRange("speed", req.Speed)
	if err != nil {
		badRequest(c, err)
		return
	}

	switch {
	case req.Distance != nil:
		distance, err := u16InRange("distance", *req.Distance)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.WheelDistance(action, speed, distance)))
	case req.Angle != nil:
		angle, err := u16InRange("angle", *req.Angle)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.WheelRelativeAngle(action, speed, angle)))
	default:
		duration, err := u16InRange("duration", req.Duration)
		if err != nil {
			badRequest(c, err)
			return
		}
		durationMode, err := byteInRange("durationMode", req.DurationMode)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.WheelNoAngle(action, speed, duration, durationMode)))
	}
}

// Head 头部控制。absolute=true 时按轴绝对角度运动。
func (h *Handler) Head(c *gin.Context) {
	var req headRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Absolute {
		axis, err := catalog.ParseHeadAxis(req.Axis)
		if err != nil {
			badRequest(c, err)
			return
		}
		if req.Angle == nil {
			badRequest(c, fmt.Errorf("absolute head motion requires angle"))
			return
		}
		angle, err := u16InRange("angle", *req.Angle)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.HeadAbsoluteAngle(axis, angle)))
		return
	}

	action, err := catalog.ParseHeadAction(req.Action)
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.Angle != nil {
		angle, err := u16InRange("angle", *req.Angle)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.HeadRelativeAngle(action, angle)))
		return
	}
	speed, err := byteInRange("speed", req.Speed)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.accepted(c, h.commander.Send(catalog.HeadNoAngle(action, speed)))
}

// Arm 手臂控制
func (h *Handler) Arm(c *gin.Context) {
	var req armRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	part, err := catalog.ParseArmPart(req.Part)
	if err != nil {
		badRequest(c, err)
		return
	}
	speed, err := byteInRange("speed", req.Speed)
	if err != nil {
		badRequest(c, err)
		return
	}

	if req.Absolute {
		if req.Angle == nil {
			badRequest(c, fmt.Errorf("absolute arm motion requires angle"))
			return
		}
		angle, err := u16InRange("angle", *req.Angle)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.ArmAbsoluteAngle(part, speed, angle)))
		return
	}

	action, err := catalog.ParseArmAction(req.Action)
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.Angle != nil {
		angle, err := u16InRange("angle", *req.Angle)
		if err != nil {
			badRequest(c, err)
			return
		}
		h.accepted(c, h.commander.Send(catalog.ArmRelativeAngle(part, speed, action, angle)))
		return
	}
	h.accepted(c, h.commander.Send(catalog.ArmNoAngle(part, speed, action)))
}

// LED 灯效控制
func (h *Handler) LED(c *gin.Context) {
	var req ledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	light, err := byteInRange("light", req.Light)
	if err != nil {
		badRequest(c, err)
		return
	}
	switchMode, err := byteInRange("switch", req.Switch)
	if err != nil {
		badRequest(c, err)
		return
	}
	rate, err := byteInRange("rate", req.Rate)
	if err != nil {
		badRequest(c, err)
		return
	}
	random, err := byteInRange("random", req.Random)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.accepted(c, h.commander.Send(catalog.LED(light, switchMode, rate, random)))
}

// Heartbeat 心跳下发
func (h *Handler) Heartbeat(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tag, err := catalog.ParsePointTag(req.Target)
	if err != nil {
		badRequest(c, err)
		return
	}
	switchMode, err := byteInRange("switch", req.Switch)
	if err != nil {
		badRequest(c, err)
		return
	}
	interval, err := u16InRange("interval", req.Interval)
	if err != nil {
		badRequest(c, err)
		return
	}
	h.accepted(c, h.commander.Send(
		catalog.Heartbeat(tag, switchMode, byte(interval&0xFF), byte(interval>>8))))
}

// Battery 电量查询下发
func (h *Handler) Battery(c *gin.Context) {
	h.accepted(c, h.commander.Send(catalog.BatteryQuery()))
}

// Status 返回传输层连接与队列状态
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status())
}
