package sanbot

import (
	"bytes"
	"testing"
)

func TestBuildDatas(t *testing.T) {
	tests := []struct {
		name     string
		payload  CommandPayload
		expected []byte
	}{
		{
			name:     "无参数",
			payload:  CommandPayload{Mode: 0x02},
			expected: []byte{0x02},
		},
		{
			name: "缺省字节被丢弃而非转成0xFF",
			payload: CommandPayload{
				Mode:         0x02,
				OrderedBytes: []Byte{B(0x01), Absent(), B(0x05)},
			},
			expected: []byte{0x02, 0x01, 0x05},
		},
		{
			name: "字面0xFF保留",
			payload: CommandPayload{
				Mode:         0x81,
				OrderedBytes: []Byte{B(0x01), B(0xFF)},
			},
			expected: []byte{0x81, 0x01, 0xFF},
		},
		{
			name: "顺序保持",
			payload: CommandPayload{
				Mode:         0x01,
				OrderedBytes: []Byte{B(0x0C), B(0x05), B(0x2C), B(0x01), B(0x00)},
			},
			expected: []byte{0x01, 0x0C, 0x05, 0x2C, 0x01, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.payload.BuildDatas()
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("BuildDatas() = % X, expected % X", got, tt.expected)
			}
		})
	}
}

func TestFromSigned(t *testing.T) {
	tests := []struct {
		name        string
		in          int8
		wantPresent bool
		wantValue   byte
	}{
		{name: "-1为缺省", in: -1, wantPresent: false},
		{name: "0保留", in: 0, wantPresent: true, wantValue: 0x00},
		{name: "正值保留", in: 0x42, wantPresent: true, wantValue: 0x42},
		{name: "-2按无符号解释", in: -2, wantPresent: true, wantValue: 0xFE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromSigned(tt.in)
			if b.Present() != tt.wantPresent {
				t.Fatalf("FromSigned(%d).Present() = %v, expected %v", tt.in, b.Present(), tt.wantPresent)
			}
			if tt.wantPresent && b.Value() != tt.wantValue {
				t.Errorf("FromSigned(%d).Value() = 0x%02X, expected 0x%02X", tt.in, b.Value(), tt.wantValue)
			}
		})
	}
}
