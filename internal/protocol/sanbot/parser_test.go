package sanbot

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		ack   byte
		datas []byte
	}{
		{name: "空datas", ack: 0x01, datas: nil},
		{name: "已知向量", ack: 0x01, datas: []byte{0x02, 0x01, 0x00, 0x00, 0x05}},
		{name: "ack为0", ack: 0x00, datas: []byte{0x04, 0x08, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildFrame(FrameParams{Ack: tt.ack}, tt.datas)
			if err != nil {
				t.Fatalf("BuildFrame() error = %v", err)
			}
			parsed, err := Parse(frame)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if parsed.Ack != tt.ack {
				t.Errorf("Ack = 0x%02X, expected 0x%02X", parsed.Ack, tt.ack)
			}
			if !bytes.Equal(parsed.Datas, tt.datas) && len(tt.datas) != 0 {
				t.Errorf("Datas = % X, expected % X", parsed.Datas, tt.datas)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	good, err := BuildFrame(FrameParams{Ack: 0x01}, []byte{0x02, 0x01})
	if err != nil {
		t.Fatalf("BuildFrame() error = %v", err)
	}

	corrupt := func(mutate func([]byte)) []byte {
		f := make([]byte, len(good))
		copy(f, good)
		mutate(f)
		return f
	}

	tests := []struct {
		name    string
		frame   []byte
		wantErr error
	}{
		{name: "过短", frame: good[:10], wantErr: ErrFrameTooShort},
		{name: "type损坏", frame: corrupt(func(f []byte) { f[0] = 0x00 }), wantErr: ErrBadMagic},
		{name: "frame_head损坏", frame: corrupt(func(f []byte) { f[16] = 0x00 }), wantErr: ErrBadMagic},
		{name: "msg_size不符", frame: corrupt(func(f []byte) { f[7] = 0x7F }), wantErr: ErrLengthMismatch},
		{name: "两处ack不一致", frame: corrupt(func(f []byte) { f[18] = 0x02 }), wantErr: ErrAckMismatch},
		{name: "校验和损坏", frame: corrupt(func(f []byte) { f[len(f)-1] ^= 0xFF }), wantErr: ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.frame); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}
