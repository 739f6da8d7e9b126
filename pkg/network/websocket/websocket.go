package websocket

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/network"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 10 * 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second
)

var ErrClosed = errors.New("websocket is closed")

type WS struct {
	Id   network.Uid
	conn deadlinedConn
	send chan []byte
	log  *logger.Logger

	OnMessage WSMessageHandler

	pingPong bool

	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

type WSMessageHandler func(message []byte)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	WriteBufferPool: &sync.Pool{},
}

// NewServer upgrades a peer request. The connection does nothing
// until Start, so OnMessage can be set first.
func NewServer(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*WS, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, true, log), nil
}

// NewClient dials a websocket server.
func NewClient(address string, log *logger.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, false, log), nil
}

func newSocket(conn *websocket.Conn, pingPong bool, log *logger.Logger) *WS {
	id := network.NewUid()
	return &WS{
		Id:       id,
		conn:     deadlinedConn{sock: conn, wt: writeWait},
		send:     make(chan []byte, 16),
		log:      log.Extend(log.With().Str("ws", id.Short())),
		pingPong: pingPong,
		done:     make(chan struct{}),
	}
}

// Start runs the read and write pumps.
func (ws *WS) Start() {
	ws.wg.Add(2)
	go ws.writer()
	go ws.reader()
}

// reader pumps messages from the websocket connection to the OnMessage callback.
// Blocking, must be called as goroutine. Serializes all websocket reads.
func (ws *WS) reader() {
	defer func() {
		ws.wg.Done()
		ws.finish()
		ws.log.Debug().Msg("reader closed")
	}()
	ws.conn.setup(func(conn *websocket.Conn) {
		conn.SetReadLimit(maxMessageSize)
		if ws.pingPong {
			_ = conn.SetReadDeadline(time.Now().Add(pongTime))
			conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongTime)) })
		}
	})
	for {
		message, err := ws.conn.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Error().Err(err).Msg("read")
			}
			return
		}
		ws.log.Debug().Bytes("data", message).Msg("read")
		if ws.OnMessage != nil {
			ws.OnMessage(message)
		}
	}
}

// writer pumps messages from the send channel to the websocket connection.
// Blocking, must be called as goroutine. Serializes all websocket writes.
func (ws *WS) writer() {
	var ping <-chan time.Time
	if ws.pingPong {
		ticker := time.NewTicker(pingTime)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer func() {
		ws.wg.Done()
		ws.finish()
		ws.log.Debug().Msg("writer closed")
	}()
	for {
		select {
		case message := <-ws.send:
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				ws.log.Error().Err(err).Msg("write")
				return
			}
		case <-ping:
			if err := ws.conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ws.done:
			return
		}
	}
}

// Write queues a message. It fails when the connection is gone.
func (ws *WS) Write(data []byte) error {
	select {
	case <-ws.done:
		return ErrClosed
	default:
	}
	select {
	case ws.send <- data:
		return nil
	case <-ws.done:
		return ErrClosed
	}
}

// Close says goodbye to the peer and waits for both pumps.
// Not to be called from OnMessage.
func (ws *WS) Close() {
	_ = ws.conn.control(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.finish()
	ws.wg.Wait()
}

func (ws *WS) Done() <-chan struct{} { return ws.done }

func (ws *WS) finish() {
	ws.once.Do(func() {
		close(ws.done)
		_ = ws.conn.close()
	})
}
