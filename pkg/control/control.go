package control

import (
	"context"
	"fmt"
	"sync"

	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/network"
	"github.com/blendwall/blendwall/pkg/network/httpx"
	"github.com/blendwall/blendwall/pkg/network/websocket"
	"github.com/blendwall/blendwall/pkg/service"
	"github.com/goccy/go-json"
)

const Path = "/control"

// Server accepts control connections. Commands of all connections
// run one at a time.
type Server struct {
	service.RunnableService

	server *httpx.Server
	wall   Wall
	log    *logger.Logger

	cmd   sync.Mutex
	conns *network.Map[network.Uid, *websocket.WS]
}

func New(conf config.Control, w Wall, log *logger.Logger) (*Server, error) {
	s := &Server{wall: w, log: log.Module("control"), conns: network.NewMap[network.Uid, *websocket.WS]()}
	serv, err := httpx.NewServer(
		conf.Address,
		func(*httpx.Server) httpx.Handler {
			return httpx.NewServeMux("").HandleFunc(Path, s.handle)
		},
		httpx.WithLogger(s.log),
	)
	if err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}
	s.server = serv
	return s, nil
}

func (s *Server) handle(w httpx.ResponseWriter, r *httpx.Request) {
	ws, err := websocket.NewServer(w, r, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("control upgrade")
		return
	}
	ws.OnMessage = func(data []byte) {
		s.cmd.Lock()
		reply := Handle(s.wall, data)
		s.cmd.Unlock()
		if !reply.Ok {
			s.log.Warn().Str("ws", ws.Id.Short()).Str("err", reply.Err).Msg("command failed")
		}
		out, err := json.Marshal(reply)
		if err != nil {
			s.log.Error().Err(err).Msg("reply")
			return
		}
		_ = ws.Write(out)
	}

	s.conns.Put(ws.Id, ws)
	s.log.Info().Str("ws", ws.Id.Short()).Str("addr", r.RemoteAddr).Msg("control connected")

	ws.Start()
	go func() {
		<-ws.Done()
		s.conns.Remove(ws.Id)
		s.log.Info().Str("ws", ws.Id.Short()).Msg("control disconnected")
	}()
}

func (s *Server) Run() {
	s.log.Info().Msgf("Starting control server at %v%v", s.server.Addr, Path)
	s.server.Run()
}

// Shutdown stops accepting connections and closes the open ones.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	for _, c := range s.conns.Values() {
		c.Close()
	}
	return err
}

func (s *Server) Port() int { return s.server.Port() }

func (s *Server) String() string { return "control::" + s.server.Addr }
