package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/session"
)

type sampleFetcher struct{}

func (sampleFetcher) FetchSchedule(context.Context, model.Coordinate, time.Time) (*aladhan.Data, error) {
	return aladhan.DecodeData(json.RawMessage(sampleData))
}

type streamStatus struct {
	Type    string                       `json:"type"`
	Payload packets.PrayerStatusResponse `json:"payload"`
	Error   string                       `json:"error"`
}

func dialStream(t *testing.T, query string) *websocket.Conn {
	t.Helper()

	provider := location.NewProvider(location.NewMemoryStore(), nil, nil)
	r := newRouter(StreamModule(sampleFetcher{}, provider, session.Options{Interval: 20 * time.Millisecond}))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream" + query
	header := http.Header{}
	header.Set(middleware.DeviceIDHeader, "stream-test")

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	assert.Equal(t, "stream-test", resp.Header.Get(middleware.DeviceIDHeader))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn) streamStatus {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg streamStatus
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamPushesStatus(t *testing.T) {
	conn := dialStream(t, "")

	first := readStatus(t, conn)
	assert.Equal(t, packets.StreamTypeStatus, first.Type)
	assert.Equal(t, "Jakarta", first.Payload.City.Name)
	assert.Len(t, first.Payload.Schedule.Prayers, 5)
	assert.NotEmpty(t, first.Payload.Cursor.Next)

	second := readStatus(t, conn)
	assert.Equal(t, packets.StreamTypeStatus, second.Type)
}

func TestStreamSwitchesCity(t *testing.T) {
	conn := dialStream(t, "?city=Medan")
	assert.Equal(t, "Medan", readStatus(t, conn).Payload.City.Name)

	require.NoError(t, conn.WriteJSON(packets.StreamRequest{City: "ambon"}))
	for i := 0; i < 50; i++ {
		if readStatus(t, conn).Payload.City.Name == "Ambon" {
			return
		}
	}
	t.Fatal("stream never switched to Ambon")
}

func TestStreamRejectsUnknownCity(t *testing.T) {
	conn := dialStream(t, "")
	readStatus(t, conn)

	require.NoError(t, conn.WriteJSON(packets.StreamRequest{City: "Atlantis"}))
	for i := 0; i < 50; i++ {
		msg := readStatus(t, conn)
		if msg.Type == packets.StreamTypeError {
			assert.Equal(t, "City not found", msg.Error)
			return
		}
	}
	t.Fatal("no error message received")
}

func TestStreamBadQueryIsRejectedBeforeUpgrade(t *testing.T) {
	provider := location.NewProvider(location.NewMemoryStore(), nil, nil)
	r := newRouter(StreamModule(sampleFetcher{}, provider, session.Options{}))

	w := do(r, http.MethodGet, "/api/stream?city=Atlantis", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
