package sanbot

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// minFrameLen 空 datas 帧的总长：16 头 + frame_head(2) + ack(1) + mmnn(2) + checksum(1)。
const minFrameLen = HeaderLen + 6

var (
	// ErrFrameTooShort 帧长不足最小帧
	ErrFrameTooShort = errors.New("sanbot: frame too short")
	// ErrBadMagic 固定头字段不匹配
	ErrBadMagic = errors.New("sanbot: bad frame magic")
	// ErrLengthMismatch 长度字段与实际字节数不一致
	ErrLengthMismatch = errors.New("sanbot: length field mismatch")
	// ErrChecksumMismatch 校验和校验失败
	ErrChecksumMismatch = errors.New("sanbot: checksum mismatch")
	// ErrAckMismatch 两处 ack 字节不一致
	ErrAckMismatch = errors.New("sanbot: ack bytes disagree")
)

// ParsedFrame 上行/回读帧的解析结果。仅还原编码层字段，不做遥测语义映射。
type ParsedFrame struct {
	Ack   byte
	Datas []byte
}

// Parse 校验并解析一帧 Sanbot USB 帧（BuildFrame 的逆操作）。
// 逐项校验固定头、两处长度字段、两处 ack 与校验和。
func Parse(frame []byte) (*ParsedFrame, error) {
	if len(frame) < minFrameLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}
	if binary.BigEndian.Uint16(frame[0:2]) != FrameType ||
		binary.BigEndian.Uint16(frame[2:4]) != FrameSubtype ||
		binary.BigEndian.Uint16(frame[16:18]) != FrameHead {
		return nil, ErrBadMagic
	}

	contentLen := binary.BigEndian.Uint32(frame[4:8])
	if int(contentLen) != len(frame)-HeaderLen {
		return nil, fmt.Errorf("%w: msg_size=%d total=%d", ErrLengthMismatch, contentLen, len(frame))
	}

	ack := frame[8]
	if frame[18] != ack {
		return nil, ErrAckMismatch
	}

	datas := frame[21 : len(frame)-1]
	mmnn := binary.BigEndian.Uint16(frame[19:21])
	if int(mmnn) != len(datas)+1 {
		return nil, fmt.Errorf("%w: mmnn=%d datas=%d", ErrLengthMismatch, mmnn, len(datas))
	}

	want := computeFields(FrameParams{Ack: ack}, datas).checksum
	if got := frame[len(frame)-1]; got != want {
		return nil, fmt.Errorf("%w: got 0x%02X want 0x%02X", ErrChecksumMismatch, got, want)
	}

	out := &ParsedFrame{Ack: ack, Datas: make([]byte, len(datas))}
	copy(out.Datas, datas)
	return out, nil
}
