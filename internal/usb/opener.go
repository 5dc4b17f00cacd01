// Package usb 双 MCU USB 传输层：设备生命周期、发送队列与后台写线程。
package usb

// Port 一台已打开 MCU 的批量传输端（已完成接口认领与端点选择）。
// Write 阻塞直至传输完成或出错。实现由 worker 独占使用，无需并发安全。
type Port interface {
	Write(p []byte) (int, error)
	Close() error
}

// Opener 按 vendor/product id 枚举并打开设备，完成接口与批量端点选择。
// 测试注入假实现，生产使用 GousbOpener。
type Opener interface {
	Open(vid, pid uint16) (Port, error)
}
