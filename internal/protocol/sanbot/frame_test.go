package sanbot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestBuildFrameKnownVector(t *testing.T) {
	datas := []byte{0x02, 0x01, 0x00, 0x00, 0x05}
	frame, err := BuildFrame(FrameParams{Ack: 0x01}, datas)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}

	// (0xFF + 0xA5 + 0x01 + 6 + 0x02+0x01+0x00+0x00+0x05) & 0xFF = 0xB3
	expected := []byte{
		0xA4, 0x03, // type
		0x00, 0x00, // subtype
		0x00, 0x00, 0x00, 0x0B, // msg_size = 5+6
		0x01,                                     // ack
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // unuse
		0xFF, 0xA5, // frame_head
		0x01,       // ack
		0x00, 0x06, // mmnn = 5+1
		0x02, 0x01, 0x00, 0x00, 0x05, // datas
		0xB3, // checksum
	}
	if !bytes.Equal(frame, expected) {
		t.Errorf("BuildFrame() =\n% X, expected\n% X", frame, expected)
	}
}

func TestBuildFrameLengthFields(t *testing.T) {
	tests := []struct {
		name  string
		datas []byte
	}{
		{name: "空datas", datas: nil},
		{name: "单字节", datas: []byte{0xFF}},
		{name: "心跳载荷", datas: []byte{0x04, 0x08, 0x01}},
		{name: "较长载荷", datas: bytes.Repeat([]byte{0xAB}, 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildFrame(FrameParams{Ack: DefaultAck}, tt.datas)
			if err != nil {
				t.Fatalf("BuildFrame() error = %v", err)
			}
			n := len(tt.datas)
			if len(frame) != HeaderLen+n+6 {
				t.Errorf("total length = %d, expected %d", len(frame), HeaderLen+n+6)
			}
			if got := binary.BigEndian.Uint32(frame[4:8]); got != uint32(n+6) {
				t.Errorf("msg_size = %d, expected %d", got, n+6)
			}
			if got := binary.BigEndian.Uint16(frame[19:21]); got != uint16(n+1) {
				t.Errorf("mmnn = %d, expected %d", got, n+1)
			}
		})
	}
}

func TestBuildFrameDeterministic(t *testing.T) {
	datas := []byte{0x04, 0x02, 0x00, 0x01, 0x00, 0x00}
	a, err := BuildFrame(FrameParams{Ack: 0x01}, datas)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	b, err := BuildFrame(FrameParams{Ack: 0x01}, datas)
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("BuildFrame() not deterministic:\n% X\n% X", a, b)
	}
}

func TestBuildFrameDatasTooLong(t *testing.T) {
	_, err := BuildFrame(FrameParams{Ack: 0x01}, make([]byte, MaxDatasLen+1))
	if !errors.Is(err, ErrDatasTooLong) {
		t.Errorf("BuildFrame() error = %v, expected ErrDatasTooLong", err)
	}

	// 上限本身仍可编码
	if _, err := BuildFrame(FrameParams{Ack: 0x01}, make([]byte, MaxDatasLen)); err != nil {
		t.Errorf("BuildFrame() at MaxDatasLen error = %v", err)
	}
}

func TestAssembleRouted(t *testing.T) {
	cmd := CommandPayload{Mode: 0x02, OrderedBytes: []Byte{B(0x01), Absent(), B(0x05)}}
	routed, err := AssembleRouted(cmd, 0x01, PointBottom)
	if err != nil {
		t.Fatalf("AssembleRouted() error = %v", err)
	}

	frame, err := Assemble(cmd, 0x01)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if routed[len(routed)-1] != PointBottom {
		t.Errorf("trailing tag = 0x%02X, expected 0x%02X", routed[len(routed)-1], PointBottom)
	}
	if !bytes.Equal(routed[:len(routed)-1], frame) {
		t.Errorf("routed prefix differs from frame")
	}
}
