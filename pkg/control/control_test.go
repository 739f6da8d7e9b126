package control

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/network/websocket"
	"github.com/goccy/go-json"
)

func TestServer(t *testing.T) {
	f := &fakeWall{}
	s, err := New(config.Control{Address: "127.0.0.1:0"}, f, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	s.Run()
	defer func() { _ = s.Shutdown(context.Background()) }()

	client, err := websocket.NewClient(fmt.Sprintf("ws://127.0.0.1:%d%s", s.Port(), Path), logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	replies := make(chan Reply, 2)
	client.OnMessage = func(data []byte) {
		var r Reply
		if err := json.Unmarshal(data, &r); err != nil {
			t.Errorf("reply: %v", err)
		}
		replies <- r
	}
	client.Start()
	defer client.Close()

	for _, c := range []struct {
		cmd  string
		ok   bool
		mode string
	}{
		{cmd: `{"id":"a","t":"mode","mode":"left"}`, ok: true, mode: "left"},
		{cmd: `{"id":"b","t":"fly"}`},
	} {
		if err := client.Write([]byte(c.cmd)); err != nil {
			t.Fatal(err)
		}
		select {
		case r := <-replies:
			if r.Ok != c.ok {
				t.Errorf("%v: reply %+v", c.cmd, r)
			}
			if c.mode != "" && (r.State == nil || r.State.Mode != c.mode) {
				t.Errorf("%v: state %+v", c.cmd, r.State)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no reply to %v", c.cmd)
		}
	}
}

func TestServerShutdownClosesConnections(t *testing.T) {
	s, err := New(config.Control{Address: "127.0.0.1:0"}, &fakeWall{}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	s.Run()

	client, err := websocket.NewClient(fmt.Sprintf("ws://127.0.0.1:%d%s", s.Port(), Path), logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	client.Start()

	deadline := time.Now().Add(time.Second)
	for {
		if s.conns.Len() == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection was not registered")
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client was not disconnected")
	}
}
