package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blendwall/blendwall/pkg/logger"
)

func TestEcho(t *testing.T) {
	closed := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := NewServer(w, r, logger.Nop())
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ws.OnMessage = func(m []byte) { _ = ws.Write(append([]byte("echo:"), m...)) }
		ws.Start()
		go func() {
			<-ws.Done()
			close(closed)
		}()
	}))
	defer srv.Close()

	got := make(chan string, 1)
	client, err := NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	client.OnMessage = func(m []byte) { got <- string(m) }
	client.Start()

	if err := client.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	select {
	case m := <-got:
		if m != "echo:hi" {
			t.Errorf("got %q", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no echo")
	}

	client.Close()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("server side did not notice the close")
	}
	if err := client.Write([]byte("late")); err != ErrClosed {
		t.Errorf("write after close = %v", err)
	}
}
