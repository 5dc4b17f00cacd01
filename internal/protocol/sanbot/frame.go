package sanbot

import (
	"encoding/binary"
	"errors"
)

// Sanbot USB 下行帧结构
// 布局（大端）：
// type(2)=0xA403 | subtype(2)=0x0000 | msg_size(4) | ack(1) | unuse(7)=0 |
// frame_head(2)=0xFFA5 | ack(1) | mmnn(2) | datas(N) | checksum(1)
// 其中 msg_size = N+6，mmnn = N+1，总长 = 16 + msg_size。
const (
	FrameType    uint16 = 0xA403
	FrameSubtype uint16 = 0x0000
	FrameHead    uint16 = 0xFFA5

	// HeaderLen 外层头长度（type 到 unuse 结束）。
	HeaderLen = 16

	// MaxDatasLen datas 区上限：mmnn 为 16 位，len(datas)+1 不得溢出。
	MaxDatasLen = 0xFFFF - 1

	// DefaultAck 默认的应答请求字节。
	DefaultAck byte = 0x01
)

var (
	// ErrDatasTooLong datas 超出 mmnn 16 位长度字段可表达范围
	ErrDatasTooLong = errors.New("sanbot: datas exceed 16-bit length field")
)

// FrameParams 单帧可变头字段。固定字段（type/subtype/frame_head/unuse）不开放配置。
type FrameParams struct {
	Ack byte
}

// computed 由 datas 推导的帧字段，不单独存储。
type computed struct {
	contentLen uint32
	mmnn       uint16
	checksum   byte
}

// computeFields 计算派生字段与校验和。
// 校验和 = (frame_head 两字节 + ack + mmnn数值 + datas逐字节累加) 的低 8 位；
// mmnn 以 16 位数值参与累加，而非拆成两个字节。
func computeFields(params FrameParams, datas []byte) computed {
	out := computed{
		contentLen: uint32(len(datas) + 6),
		mmnn:       uint16(len(datas) + 1),
	}

	sum := uint32(FrameHead>>8) + uint32(FrameHead&0xFF)
	sum += uint32(params.Ack)
	sum += uint32(out.mmnn)
	for _, b := range datas {
		sum += uint32(b)
	}
	out.checksum = byte(sum & 0xFF)
	return out
}

// BuildFrame 构造一帧下行 USB 帧（与 Parse 对应）。
// 纯函数：相同输入产生逐字节相同的输出。datas 超长返回 ErrDatasTooLong。
func BuildFrame(params FrameParams, datas []byte) ([]byte, error) {
	if len(datas) > MaxDatasLen {
		return nil, ErrDatasTooLong
	}
	c := computeFields(params, datas)

	frame := make([]byte, 0, HeaderLen+int(c.contentLen))
	frame = binary.BigEndian.AppendUint16(frame, FrameType)
	frame = binary.BigEndian.AppendUint16(frame, FrameSubtype)
	frame = binary.BigEndian.AppendUint32(frame, c.contentLen)
	frame = append(frame, params.Ack)
	frame = append(frame, 0, 0, 0, 0, 0, 0, 0) // unuse[7]
	frame = binary.BigEndian.AppendUint16(frame, FrameHead)
	frame = append(frame, params.Ack)
	frame = binary.BigEndian.AppendUint16(frame, c.mmnn)
	frame = append(frame, datas...)
	frame = append(frame, c.checksum)
	return frame, nil
}

// Assemble 从命令载荷直接组帧：展开可选字节后按 ack 构造完整帧。
func Assemble(cmd CommandPayload, ack byte) ([]byte, error) {
	return BuildFrame(FrameParams{Ack: ack}, cmd.BuildDatas())
}

// AssembleRouted 组帧并追加路由字节，产出可直接入队的路由缓冲。
func AssembleRouted(cmd CommandPayload, ack byte, tag byte) ([]byte, error) {
	frame, err := Assemble(cmd, ack)
	if err != nil {
		return nil, err
	}
	return AppendPointTag(frame, tag), nil
}
