package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/usb"
)

type stubCommander struct {
	commands []catalog.Command
	raws     []struct {
		payload sanbot.CommandPayload
		tag     byte
		ack     byte
	}
	err error
}

func (s *stubCommander) Send(cmd catalog.Command) error {
	s.commands = append(s.commands, cmd)
	return s.err
}

func (s *stubCommander) SendRawWithAck(payload sanbot.CommandPayload, tag byte, ack byte) error {
	s.raws = append(s.raws, struct {
		payload sanbot.CommandPayload
		tag     byte
		ack     byte
	}{payload, tag, ack})
	return s.err
}

type stubStatus struct {
	status usb.Status
}

func (s *stubStatus) Status() usb.Status { return s.status }

func newTestRouter(cmd *stubCommander, st *stubStatus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(cmd, st, 0x01, nil))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	return rr
}

func TestSendRawWithSentinel(t *testing.T) {
	cmd := &stubCommander{}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/send", gin.H{
		"mode": 0x81,
		"data": []int{0x05, -1, 0x02},
		"tag":  "head",
	})
	assert.Equal(t, http.StatusAccepted, rr.Code)

	require.Len(t, cmd.raws, 1)
	raw := cmd.raws[0]
	assert.Equal(t, byte(0x81), raw.payload.Mode)
	assert.Equal(t, sanbot.PointHead, raw.tag)
	assert.Equal(t, byte(0x01), raw.ack, "default ack applied")

	require.Len(t, raw.payload.OrderedBytes, 3)
	assert.True(t, raw.payload.OrderedBytes[0].Present())
	assert.False(t, raw.payload.OrderedBytes[1].Present(), "-1 maps to absent byte")
	assert.True(t, raw.payload.OrderedBytes[2].Present())
}

func TestSendRawAckOverride(t *testing.T) {
	cmd := &stubCommander{}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/send", gin.H{
		"mode": 0x01, "data": []int{0x01}, "tag": "bottom", "ack": 0x00,
	})
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, cmd.raws, 1)
	assert.Equal(t, byte(0x00), cmd.raws[0].ack)
}

func TestSendRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{"非法路由标签", gin.H{"mode": 0x01, "data": []int{1}, "tag": "sideways"}},
		{"mode越界", gin.H{"mode": 300, "data": []int{1}, "tag": "head"}},
		{"data字节越界", gin.H{"mode": 0x01, "data": []int{256}, "tag": "head"}},
		{"data负数非哨兵", gin.H{"mode": 0x01, "data": []int{-2}, "tag": "head"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &stubCommander{}
			r := newTestRouter(cmd, &stubStatus{})
			rr := postJSON(t, r, "/api/v1/send", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, cmd.raws)
		})
	}
}

func TestWheelVariants(t *testing.T) {
	t.Run("定距", func(t *testing.T) {
		cmd := &stubCommander{}
		r := newTestRouter(cmd, &stubStatus{})
		rr := postJSON(t, r, "/api/v1/wheel", gin.H{
			"action": "forward", "speed": 5, "distance": 300,
		})
		assert.Equal(t, http.StatusAccepted, rr.Code)
		require.Len(t, cmd.commands, 1)
		assert.Equal(t, catalog.WheelDistance(catalog.WheelForward, 5, 300), cmd.commands[0])
	})

	t.Run("角度", func(t *testing.T) {
		cmd := &stubCommander{}
		r := newTestRouter(cmd, &stubStatus{})
		rr := postJSON(t, r, "/api/v1/wheel", gin.H{
			"action": "left", "speed": 3, "angle": 90,
		})
		assert.Equal(t, http.StatusAccepted, rr.Code)
		require.Len(t, cmd.commands, 1)
		assert.Equal(t, catalog.WheelRelativeAngle(catalog.WheelLeft, 3, 90), cmd.commands[0])
	})

	t.Run("非法动作", func(t *testing.T) {
		cmd := &stubCommander{}
		r := newTestRouter(cmd, &stubStatus{})
		rr := postJSON(t, r, "/api/v1/wheel", gin.H{"action": "hover", "speed": 3})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHeadAbsolute(t *testing.T) {
	cmd := &stubCommander{}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/head", gin.H{
		"absolute": true, "axis": "vertical", "angle": 45,
	})
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, cmd.commands, 1)
	assert.Equal(t, catalog.HeadAbsoluteAngle(catalog.HeadAxisVertical, 45), cmd.commands[0])
}

func TestLEDRouting(t *testing.T) {
	cmd := &stubCommander{}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/led", gin.H{"light": 0, "switch": 1, "rate": 2, "random": 0})
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, cmd.commands, 1)
	assert.Equal(t, sanbot.PointBroadcast, cmd.commands[0].Tag)
}

func TestBatteryQuery(t *testing.T) {
	cmd := &stubCommander{}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/battery", gin.H{})
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, cmd.commands, 1)
	assert.Equal(t, catalog.BatteryQuery(), cmd.commands[0])
}

func TestStatusEndpoint(t *testing.T) {
	st := &stubStatus{status: usb.Status{
		Head:       usb.DeviceStatus{Connected: true},
		Bottom:     usb.DeviceStatus{Connected: false, Failures: 4},
		QueueDepth: 2,
	}}
	r := newTestRouter(&stubCommander{}, st)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got usb.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, st.status, got)
}

func TestEncodeFailureReturns422(t *testing.T) {
	cmd := &stubCommander{err: sanbot.ErrDatasTooLong}
	r := newTestRouter(cmd, &stubStatus{})

	rr := postJSON(t, r, "/api/v1/led", gin.H{"light": 1, "switch": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
