package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamController struct {
	fetcher  aladhan.Fetcher
	resolver cityResolver
	opts     session.Options
}

func NewStreamController(fetcher aladhan.Fetcher, provider *location.Provider, opts session.Options) *StreamController {
	return &StreamController{
		fetcher:  fetcher,
		resolver: cityResolver{provider: provider},
		opts:     opts,
	}
}

func StreamModule(fetcher aladhan.Fetcher, provider *location.Provider, opts session.Options) api.Module {
	ctl := NewStreamController(fetcher, provider, opts)
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw(http.MethodGet, "/stream", ctl.stream)
	})
}

// streamClient serializes all writes through send; only writePump touches
// the connection for writing.
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (sc *streamClient) push(ctx context.Context, msg packets.StreamMessage) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal stream message")
		return
	}

	select {
	case sc.send <- data:
	case <-ctx.Done():
	default:
		log.Warn().Msg("stream client is slow, dropping message")
	}
}

func (sc *streamClient) writePump(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		sc.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = sc.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-sc.send:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// stream upgrades to a WebSocket and pushes the prayer status on every tick.
// Clients switch city by sending {"city": "..."} or coordinates.
func (s *StreamController) stream(c *gin.Context) {
	var query packets.CursorQuery
	_ = c.ShouldBindQuery(&query)

	device := deviceID(c)
	city, apiErr := s.resolver.resolve(c.Request.Context(), device, query.City, query.CoordinateQuery)
	if apiErr != nil {
		c.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	header := http.Header{}
	header.Set(middleware.DeviceIDHeader, device)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	log.Info().Str("device_id", device).Str("city", city.Name).Msg("stream connected")

	ctx, cancel := context.WithCancel(context.Background())
	client := &streamClient{conn: conn, send: make(chan []byte, sendBuffer)}
	sess := session.New(s.fetcher, s.opts)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		client.writePump(ctx, cancel)
	}()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = sess.Run(ctx, func(u session.Update) { client.push(ctx, statusMessage(u)) })
	}()

	if err := sess.SetCity(city); err != nil {
		client.push(ctx, packets.StreamMessage{Type: packets.StreamTypeError, Error: err.Error()})
	}

	s.readPump(ctx, client, sess, device)

	cancel()
	sess.Close()
	<-runDone
	<-writeDone
	log.Info().Str("device_id", device).Msg("stream disconnected")
}

func (s *StreamController) readPump(ctx context.Context, client *streamClient, sess *session.Session, device string) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("device_id", device).Msg("stream read failed")
			}
			return
		}

		var request packets.StreamRequest
		if err := json.Unmarshal(message, &request); err != nil {
			client.push(ctx, packets.StreamMessage{Type: packets.StreamTypeError, Error: "invalid message"})
			continue
		}

		city, apiErr := s.cityFromRequest(ctx, device, request)
		if apiErr != nil {
			client.push(ctx, packets.StreamMessage{Type: packets.StreamTypeError, Error: apiErr.Message})
			continue
		}
		if err := sess.SetCity(city); err != nil {
			client.push(ctx, packets.StreamMessage{Type: packets.StreamTypeError, Error: err.Error()})
		}
	}
}

func (s *StreamController) cityFromRequest(ctx context.Context, device string, r packets.StreamRequest) (model.City, *api.APIError) {
	if r.Latitude != nil && r.Longitude != nil {
		city := model.MyLocation(model.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude})
		if err := city.Validate(); err != nil {
			return model.City{}, api.BadRequest(msgInvalidCoordinates)
		}
		return city, nil
	}
	if r.City == "" {
		return model.City{}, api.BadRequest("city or coordinates are required")
	}
	return s.resolver.resolve(ctx, device, r.City, packets.CoordinateQuery{})
}

func statusMessage(u session.Update) packets.StreamMessage {
	msg := packets.StreamMessage{Type: packets.StreamTypeStatus}
	if u.Cursor != nil && u.Schedule != nil {
		msg.Payload = packets.NewPrayerStatusResponse(u.City, *u.Schedule, *u.Cursor, u.At)
	}
	if u.Err != nil {
		msg.Type = packets.StreamTypeError
		msg.Error = msgFetchFailed
	}
	return msg
}
