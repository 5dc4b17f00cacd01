package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
)

type captureTransport struct {
	sent    [][]byte
	flushed int
}

func (c *captureTransport) SendToPoint(routed []byte) { c.sent = append(c.sent, routed) }
func (c *captureTransport) Flush()                    { c.flushed++ }

func TestSendEncodesAndRoutes(t *testing.T) {
	tr := &captureTransport{}
	b := New(tr, 0x01)

	require.NoError(t, b.WheelDistance(catalog.WheelForward, 0x05, 300))
	require.Len(t, tr.sent, 1)

	frame, tag, err := sanbot.SplitPointTag(tr.sent[0])
	require.NoError(t, err)
	assert.Equal(t, sanbot.PointBottom, tag)

	parsed, err := sanbot.Parse(frame)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), parsed.Ack)
	assert.Equal(t, []byte{0x01, 0x11, 0x01, 0x05, 0x2C, 0x01}, parsed.Datas)
}

func TestSendRawCustomAck(t *testing.T) {
	tr := &captureTransport{}
	b := New(tr, 0x02)

	payload := sanbot.CommandPayload{
		Mode:         0x04,
		OrderedBytes: []sanbot.Byte{sanbot.B(0x08), sanbot.B(0x01)},
	}
	require.NoError(t, b.SendRaw(payload, sanbot.PointHead))

	frame, tag, err := sanbot.SplitPointTag(tr.sent[0])
	require.NoError(t, err)
	assert.Equal(t, sanbot.PointHead, tag)

	parsed, err := sanbot.Parse(frame)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), parsed.Ack)
}

func TestSendRawOversizedPayload(t *testing.T) {
	tr := &captureTransport{}
	b := New(tr, 0x01)

	ordered := make([]sanbot.Byte, sanbot.MaxDatasLen)
	for i := range ordered {
		ordered[i] = sanbot.B(0x00)
	}
	payload := sanbot.CommandPayload{Mode: 0x01, OrderedBytes: ordered}
	err := b.SendRaw(payload, sanbot.PointBottom)
	assert.ErrorIs(t, err, sanbot.ErrDatasTooLong)
	assert.Empty(t, tr.sent, "failed encode must not enqueue")
}

func TestFlushDelegates(t *testing.T) {
	tr := &captureTransport{}
	b := New(tr, 0x01)
	b.Flush()
	assert.Equal(t, 1, tr.flushed)
}

func TestLEDPointRouting(t *testing.T) {
	tr := &captureTransport{}
	b := New(tr, 0x01)

	require.NoError(t, b.LED(0x00, 0x01, 0x02, 0x03)) // 白灯 -> 广播
	require.NoError(t, b.LED(0x04, 0x01, 0x02, 0x03)) // 头灯 -> 头部
	require.NoError(t, b.LED(0x01, 0x01, 0x02, 0x03)) // 其余 -> 底部

	tags := make([]byte, 0, 3)
	for _, routed := range tr.sent {
		_, tag, err := sanbot.SplitPointTag(routed)
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	assert.Equal(t, []byte{sanbot.PointBroadcast, sanbot.PointHead, sanbot.PointBottom}, tags)
}
