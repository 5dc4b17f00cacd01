package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// WheelAction 轮组动作字节。
type WheelAction byte

const (
	WheelStop             WheelAction = 0x00
	WheelForward          WheelAction = 0x01
	WheelBack             WheelAction = 0x02
	WheelLeft             WheelAction = 0x03
	WheelRight            WheelAction = 0x04
	WheelLeftForward      WheelAction = 0x05
	WheelRightForward     WheelAction = 0x06
	WheelLeftBack         WheelAction = 0x07
	WheelRightBack        WheelAction = 0x08
	WheelLeftTranslation  WheelAction = 0x0A
	WheelRightTranslation WheelAction = 0x0B
	WheelTurnLeft         WheelAction = 0x0C
	WheelTurnRight        WheelAction = 0x0D
	WheelStopTurn         WheelAction = 0xF0
)

var wheelActionNames = map[string]WheelAction{
	"stop":              WheelStop,
	"forward":           WheelForward,
	"back":              WheelBack,
	"left":              WheelLeft,
	"right":             WheelRight,
	"left-forward":      WheelLeftForward,
	"right-forward":     WheelRightForward,
	"left-back":         WheelLeftBack,
	"right-back":        WheelRightBack,
	"left-translation":  WheelLeftTranslation,
	"right-translation": WheelRightTranslation,
	"turn-left":         WheelTurnLeft,
	"turn-right":        WheelTurnRight,
	"stop-turn":         WheelStopTurn,
}

// ArmPart 手臂选择字节。
type ArmPart byte

const (
	ArmLeft  ArmPart = 0x01
	ArmRight ArmPart = 0x02
	ArmBoth  ArmPart = 0x03
)

var armPartNames = map[string]ArmPart{
	"left":  ArmLeft,
	"right": ArmRight,
	"both":  ArmBoth,
}

// ArmAction 手臂动作字节。
type ArmAction byte

const (
	ArmUp    ArmAction = 0x01
	ArmDown  ArmAction = 0x02
	ArmHalt  ArmAction = 0x03
	ArmReset ArmAction = 0x04
)

var armActionNames = map[string]ArmAction{
	"up":    ArmUp,
	"down":  ArmDown,
	"stop":  ArmHalt,
	"reset": ArmReset,
}

// HeadAction 头部动作字节。
type HeadAction byte

const (
	HeadStop            HeadAction = 0x00
	HeadUp              HeadAction = 0x01
	HeadDown            HeadAction = 0x02
	HeadLeft            HeadAction = 0x03
	HeadRight           HeadAction = 0x04
	HeadLeftUp          HeadAction = 0x05
	HeadRightUp         HeadAction = 0x06
	HeadLeftDown        HeadAction = 0x07
	HeadRightDown       HeadAction = 0x08
	HeadVerticalReset   HeadAction = 0x09
	HeadHorizontalReset HeadAction = 0x0A
	HeadCentreReset     HeadAction = 0x0B
)

var headActionNames = map[string]HeadAction{
	"stop":             HeadStop,
	"up":               HeadUp,
	"down":             HeadDown,
	"left":             HeadLeft,
	"right":            HeadRight,
	"left-up":          HeadLeftUp,
	"right-up":         HeadRightUp,
	"left-down":        HeadLeftDown,
	"right-down":       HeadRightDown,
	"vertical-reset":   HeadVerticalReset,
	"horizontal-reset": HeadHorizontalReset,
	"centre-reset":     HeadCentreReset,
}

// HeadAxis 绝对角度转头的轴选择。
type HeadAxis byte

const (
	HeadAxisVertical   HeadAxis = 0x01
	HeadAxisHorizontal HeadAxis = 0x02
)

var headAxisNames = map[string]HeadAxis{
	"vertical":   HeadAxisVertical,
	"horizontal": HeadAxisHorizontal,
}

// HeadLock 双轴定位的锁定方式。
type HeadLock byte

const (
	HeadNoLock         HeadLock = 0x00
	HeadHorizontalLock HeadLock = 0x01
	HeadVerticalLock   HeadLock = 0x02
	HeadBothLock       HeadLock = 0x03
)

var headLockNames = map[string]HeadLock{
	"no-lock":         HeadNoLock,
	"horizontal-lock": HeadHorizontalLock,
	"vertical-lock":   HeadVerticalLock,
	"both-lock":       HeadBothLock,
}

// ParseByte 解析 0..255 的数字（支持 0x 前缀）。
func ParseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q", s)
	}
	return byte(v), nil
}

// ParseU16 解析 0..65535 的数字（支持 0x 前缀）。
func ParseU16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid u16 value %q", s)
	}
	return uint16(v), nil
}

// ParseWheelAction 按名称或数字解析轮组动作。
func ParseWheelAction(s string) (WheelAction, error) {
	if a, ok := wheelActionNames[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown wheel action %q", s)
	}
	return WheelAction(v), nil
}

// ParseArmPart 按名称或数字解析手臂选择。
func ParseArmPart(s string) (ArmPart, error) {
	if p, ok := armPartNames[strings.ToLower(s)]; ok {
		return p, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown arm part %q", s)
	}
	return ArmPart(v), nil
}

// ParseArmAction 按名称或数字解析手臂动作。
func ParseArmAction(s string) (ArmAction, error) {
	if a, ok := armActionNames[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown arm action %q", s)
	}
	return ArmAction(v), nil
}

// ParseHeadAction 按名称或数字解析头部动作。
func ParseHeadAction(s string) (HeadAction, error) {
	if a, ok := headActionNames[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown head action %q", s)
	}
	return HeadAction(v), nil
}

// ParseHeadAxis 按名称或数字解析转头轴。
func ParseHeadAxis(s string) (HeadAxis, error) {
	if a, ok := headAxisNames[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown head axis %q", s)
	}
	return HeadAxis(v), nil
}

// ParseHeadLock 按名称或数字解析锁定方式。
func ParseHeadLock(s string) (HeadLock, error) {
	if l, ok := headLockNames[strings.ToLower(s)]; ok {
		return l, nil
	}
	v, err := ParseByte(s)
	if err != nil {
		return 0, fmt.Errorf("unknown head lock %q", s)
	}
	return HeadLock(v), nil
}

// ParsePointTag 按名称或数字解析路由标签。
func ParsePointTag(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "head":
		return 0x01, nil
	case "bottom":
		return 0x02, nil
	case "broadcast", "both":
		return 0x03, nil
	}
	v, err := ParseByte(s)
	if err != nil || (v != 0x01 && v != 0x02 && v != 0x03) {
		return 0, fmt.Errorf("unknown point tag %q", s)
	}
	return v, nil
}
