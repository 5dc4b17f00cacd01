package sanbot

import "errors"

// 路由字节：追加在校验和之后，仅在进程内排队时存在，写 USB 前剥离。
const (
	PointHead      byte = 0x01 // 头部 MCU
	PointBottom    byte = 0x02 // 底部 MCU
	PointBroadcast byte = 0x03 // 先头后底，两次写
)

var (
	// ErrRoutedTooShort 路由缓冲不足以同时容纳帧与路由字节
	ErrRoutedTooShort = errors.New("sanbot: routed buffer too short")
)

// AppendPointTag 在帧尾追加路由字节。纯追加，不校验 tag 取值：
// 只有传输层知道哪些标签有意义。
func AppendPointTag(frame []byte, tag byte) []byte {
	routed := make([]byte, 0, len(frame)+1)
	routed = append(routed, frame...)
	return append(routed, tag)
}

// SplitPointTag 从路由缓冲拆出原帧与路由字节（AppendPointTag 的逆操作）。
func SplitPointTag(routed []byte) (frame []byte, tag byte, err error) {
	if len(routed) < 2 {
		return nil, 0, ErrRoutedTooShort
	}
	return routed[:len(routed)-1], routed[len(routed)-1], nil
}
