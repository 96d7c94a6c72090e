package mazeapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	readLimit    = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Access is granted by the session token, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// eventStream pushes a session's events to one websocket client.
type eventStream struct {
	conn    *websocket.Conn
	events  <-chan game.Event
	cancel  func()
	encode  func(game.Event) ([]byte, error)
	msgType int
	done    chan struct{}
}

// events upgrades the request and streams the session's events until either
// side goes away. The first message is a "state" snapshot. Clients asking for
// ?format=pb receive binary protobuf frames instead of JSON text.
func (mc *Controller) events(ctx *gin.Context) {
	s, ok := mc.session(ctx)
	if !ok {
		return
	}

	binary := ctx.Query("format") == "pb" && mc.encoder != nil
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}

	events, cancel := s.Subscribe()
	stream := &eventStream{
		conn:    conn,
		events:  events,
		cancel:  cancel,
		encode:  func(e game.Event) ([]byte, error) { return json.Marshal(e) },
		msgType: websocket.TextMessage,
		done:    make(chan struct{}),
	}
	var first []byte
	if binary {
		stream.encode = mc.encoder.MarshalEvent
		stream.msgType = websocket.BinaryMessage
		first, err = mc.encoder.MarshalState(s.Snapshot())
	} else {
		first, err = json.Marshal(gin.H{"type": "state", "state": s.Snapshot()})
	}
	if err != nil {
		cancel()
		conn.Close()
		return
	}

	go stream.writePump(first)
	stream.readPump()
}

// readPump discards client messages and keeps the connection alive through pongs.
func (es *eventStream) readPump() {
	defer func() {
		close(es.done)
		es.cancel()
	}()

	es.conn.SetReadLimit(readLimit)
	_ = es.conn.SetReadDeadline(time.Now().Add(pongWait))
	es.conn.SetPongHandler(func(string) error {
		return es.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := es.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends the snapshot, then every event, with periodic pings.
func (es *eventStream) writePump(first []byte) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		es.conn.Close()
	}()

	_ = es.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := es.conn.WriteMessage(es.msgType, first); err != nil {
		return
	}

	for {
		select {
		case e, ok := <-es.events:
			_ = es.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = es.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			data, err := es.encode(e)
			if err != nil {
				continue
			}
			if err := es.conn.WriteMessage(es.msgType, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = es.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := es.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-es.done:
			return
		}
	}
}
