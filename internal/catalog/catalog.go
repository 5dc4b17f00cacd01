// Package catalog 指令目录：把人类可读的动作映射为
// (模式字节, 有序载荷, 路由标签) 三元组。对编码与传输层而言这里只是数据。
package catalog

import (
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
)

// Command 目录条目。Tag 为 sanbot.PointHead/PointBottom/PointBroadcast 之一。
type Command struct {
	Payload sanbot.CommandPayload
	Tag     byte
}

// 模式字节（datas 首字节）
const (
	modeWheel  byte = 0x01
	modeHead   byte = 0x02
	modeArm    byte = 0x03
	modeSystem byte = 0x04
	modeMotor  byte = 0x05
	modeQuery  byte = 0x81
)

func command(mode byte, tag byte, ordered ...sanbot.Byte) Command {
	return Command{
		Payload: sanbot.CommandPayload{Mode: mode, OrderedBytes: ordered},
		Tag:     tag,
	}
}

func u16le(v uint16) (lsb, msb sanbot.Byte) {
	return sanbot.B(byte(v & 0xFF)), sanbot.B(byte(v >> 8))
}

// ---- 轮组（底部 MCU）----

// WheelNoAngle 无角度行走：子模式0x01 [action speed durLSB durMSB durationMode]。
func WheelNoAngle(action WheelAction, speed byte, duration uint16, durationMode byte) Command {
	lsb, msb := u16le(duration)
	return command(modeWheel, sanbot.PointBottom,
		sanbot.B(0x01), sanbot.B(byte(action)), sanbot.B(speed), lsb, msb, sanbot.B(durationMode))
}

// WheelRelativeAngle 相对角度转向：子模式0x02 [action speed angleLSB angleMSB]。
func WheelRelativeAngle(action WheelAction, speed byte, angle uint16) Command {
	lsb, msb := u16le(angle)
	return command(modeWheel, sanbot.PointBottom,
		sanbot.B(0x02), sanbot.B(byte(action)), sanbot.B(speed), lsb, msb)
}

// WheelDistance 定距行走：子模式0x11 [action speed distLSB distMSB]。
func WheelDistance(action WheelAction, speed byte, distance uint16) Command {
	lsb, msb := u16le(distance)
	return command(modeWheel, sanbot.PointBottom,
		sanbot.B(0x11), sanbot.B(byte(action)), sanbot.B(speed), lsb, msb)
}

// WheelTimed 定时行走：子模式0x10 [action timeLSB timeMSB degree]。
func WheelTimed(action WheelAction, time uint16, degree byte) Command {
	lsb, msb := u16le(time)
	return command(modeWheel, sanbot.PointBottom,
		sanbot.B(0x10), sanbot.B(byte(action)), lsb, msb, sanbot.B(degree))
}

// ---- 手臂（底部 MCU）----

// ArmNoAngle 无角度手臂动作：子模式0x01 [part speed action]。
func ArmNoAngle(part ArmPart, speed byte, action ArmAction) Command {
	return command(modeArm, sanbot.PointBottom,
		sanbot.B(0x01), sanbot.B(byte(part)), sanbot.B(speed), sanbot.B(byte(action)))
}

// ArmRelativeAngle 相对角度手臂动作：子模式0x02 [part speed action angleLSB angleMSB]。
func ArmRelativeAngle(part ArmPart, speed byte, action ArmAction, angle uint16) Command {
	lsb, msb := u16le(angle)
	return command(modeArm, sanbot.PointBottom,
		sanbot.B(0x02), sanbot.B(byte(part)), sanbot.B(speed), sanbot.B(byte(action)), lsb, msb)
}

// ArmAbsoluteAngle 绝对角度手臂动作：子模式0x03 [part speed direction=0x02 angleLSB angleMSB]。
func ArmAbsoluteAngle(part ArmPart, speed byte, angle uint16) Command {
	lsb, msb := u16le(angle)
	return command(modeArm, sanbot.PointBottom,
		sanbot.B(0x03), sanbot.B(byte(part)), sanbot.B(speed), sanbot.B(0x02), lsb, msb)
}

// ---- 头部（头部 MCU）----

// HeadNoAngle 无角度转头：子模式0x01 [action speed]。
func HeadNoAngle(action HeadAction, speed byte) Command {
	return command(modeHead, sanbot.PointHead,
		sanbot.B(0x01), sanbot.B(byte(action)), sanbot.B(speed))
}

// HeadRelativeAngle 相对角度转头：子模式0x02 [action speed=0 angleLSB angleMSB]。
func HeadRelativeAngle(action HeadAction, angle uint16) Command {
	lsb, msb := u16le(angle)
	return command(modeHead, sanbot.PointHead,
		sanbot.B(0x02), sanbot.B(byte(action)), sanbot.B(0x00), lsb, msb)
}

// HeadAbsoluteAngle 绝对角度转头：子模式0x03 [axis speed=0 angleLSB angleMSB]。
func HeadAbsoluteAngle(action HeadAxis, angle uint16) Command {
	lsb, msb := u16le(angle)
	return command(modeHead, sanbot.PointHead,
		sanbot.B(0x03), sanbot.B(byte(action)), sanbot.B(0x00), lsb, msb)
}

// HeadLocateAbsolute 双轴绝对定位：子模式0x21 [lock hLSB hMSB vLSB vMSB]。
func HeadLocateAbsolute(action HeadLock, hAngle, vAngle uint16) Command {
	hlsb, hmsb := u16le(hAngle)
	vlsb, vmsb := u16le(vAngle)
	return command(modeHead, sanbot.PointHead,
		sanbot.B(0x21), sanbot.B(byte(action)), hlsb, hmsb, vlsb, vmsb)
}

// HeadLocateRelative 双轴相对定位：子模式0x22 [lock hDir hAngle vDir vAngle]。
func HeadLocateRelative(action HeadLock, hAngle, vAngle, hDirection, vDirection byte) Command {
	return command(modeHead, sanbot.PointHead,
		sanbot.B(0x22), sanbot.B(byte(action)), sanbot.B(hDirection), sanbot.B(hAngle),
		sanbot.B(vDirection), sanbot.B(vAngle))
}

// HeadCentreLock 回中锁定：子模式0x20 [0x01]。
func HeadCentreLock() Command {
	return command(modeHead, sanbot.PointHead, sanbot.B(0x20), sanbot.B(0x01))
}

// ---- 系统（0x04/0x05 组，目标随子命令变化）----

// Heartbeat 心跳：[0x08 switchMode] 或 [0x08 switchMode lsb msb]（switchMode != 1 时）。
// 路由标签由调用方按目标 MCU 决定。
func Heartbeat(tag byte, switchMode byte, lsb, msb byte) Command {
	if switchMode == 1 {
		return command(modeSystem, tag, sanbot.B(0x08), sanbot.B(switchMode))
	}
	return command(modeSystem, tag,
		sanbot.B(0x08), sanbot.B(switchMode), sanbot.B(lsb), sanbot.B(msb))
}

// LED 灯光控制：[0x02 whichLight switchMode rate random]。
// whichLight 0x0A（特殊灯组）在线上写作 0x00；路由标签随灯位变化。
func LED(whichLight, switchMode, rate, randomCount byte) Command {
	wire := whichLight
	if wire == 0x0A {
		wire = 0x00
	}
	return command(modeSystem, LEDPointTag(whichLight),
		sanbot.B(0x02), sanbot.B(wire), sanbot.B(switchMode), sanbot.B(rate), sanbot.B(randomCount))
}

// LEDPointTag 灯位到路由标签：0 为全体广播，4/5/0x0A 在头部，其余在底部。
func LEDPointTag(whichLight byte) byte {
	switch whichLight {
	case 0x00:
		return sanbot.PointBroadcast
	case 0x04, 0x05, 0x0A:
		return sanbot.PointHead
	default:
		return sanbot.PointBottom
	}
}

// ProjectorPower 投影开关：[0x03 switchMode]，头部。
func ProjectorPower(on bool) Command {
	mode := byte(0x00)
	if on {
		mode = 0x01
	}
	return command(modeSystem, sanbot.PointHead, sanbot.B(0x03), sanbot.B(mode))
}

// ProjectorImage 投影画面控制：[0x0A 0x01 controlContent]，头部。
func ProjectorImage(controlContent byte) Command {
	return command(modeSystem, sanbot.PointHead,
		sanbot.B(0x0A), sanbot.B(0x01), sanbot.B(controlContent))
}

// MCUReset 复位目标 MCU：[0x0C 0x01 time]。
func MCUReset(tag byte, timeByte byte) Command {
	return command(modeSystem, tag, sanbot.B(0x0C), sanbot.B(0x01), sanbot.B(timeByte))
}

// MotorDefend 电机保护开关：模式0x05 [0x02 whichPart switchMode]。
// whichPart 1/2/3 位于头部，其余在底部。
func MotorDefend(whichPart byte, enable bool) Command {
	mode := byte(0x00)
	if enable {
		mode = 0x01
	}
	tag := sanbot.PointBottom
	if whichPart == 1 || whichPart == 2 || whichPart == 3 {
		tag = sanbot.PointHead
	}
	return command(modeMotor, tag, sanbot.B(0x02), sanbot.B(whichPart), sanbot.B(mode))
}

// ---- 状态查询（模式 0x81）----

// BatteryQuery 电量查询：[0x01 0xFF]。第三字节是字面 0xFF，不是缺省占位。
func BatteryQuery() Command {
	return command(modeQuery, sanbot.PointBottom, sanbot.B(0x01), sanbot.B(0xFF))
}

// GyroQuery 陀螺仪查询：[0x08 accel? compass?]，-1 表示不带该字段。
func GyroQuery(accelStatus, compassStatus int8) Command {
	return command(modeQuery, sanbot.PointBottom,
		sanbot.B(0x08), sanbot.FromSigned(accelStatus), sanbot.FromSigned(compassStatus))
}

// TouchQuery 触摸查询：[0x05 turnal? info?]，-1 表示不带该字段。
func TouchQuery(touchTurnal, touchInfo int8) Command {
	return command(modeQuery, TouchPointTag(touchTurnal),
		sanbot.B(0x05), sanbot.FromSigned(touchTurnal), sanbot.FromSigned(touchInfo))
}

// TouchPointTag 触摸通道到路由标签。
func TouchPointTag(touchTurnal int8) byte {
	switch byte(touchTurnal) {
	case 1, 2, 5, 6, 11, 12, 13:
		return sanbot.PointHead
	case 0x93:
		return sanbot.PointBroadcast
	default:
		return sanbot.PointBottom
	}
}

// ProjectorStatusQuery 投影开关状态查询：[0x18]，头部。
func ProjectorStatusQuery() Command {
	return command(modeQuery, sanbot.PointHead, sanbot.B(0x18))
}

// ProjectorConnectionQuery 投影连接状态查询：[0x12]，头部。
func ProjectorConnectionQuery() Command {
	return command(modeQuery, sanbot.PointHead, sanbot.B(0x12))
}
