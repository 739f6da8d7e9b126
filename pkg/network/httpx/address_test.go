package httpx

import (
	"net"
	"testing"
)

type testListener struct {
	addr net.TCPAddr
}

func (tl testListener) Accept() (net.Conn, error) { return nil, nil }
func (tl testListener) Close() error              { return nil }
func (tl testListener) Addr() net.Addr            { return &tl.addr }

func NewTCP(port int) Listener {
	return Listener{testListener{addr: net.TCPAddr{Port: port}}}
}

func TestMergeAddresses(t *testing.T) {
	tests := []struct {
		addr string
		ls   Listener
		rez  string
	}{
		{addr: "", rez: "localhost"},
		{addr: ":", ls: NewTCP(0), rez: "localhost"},
		{addr: "", ls: NewTCP(393), rez: "localhost:393"},
		{addr: ":9000", ls: NewTCP(9000), rez: "localhost:9000"},
		{addr: ":9000", ls: NewTCP(9001), rez: "localhost:9001"},
		{addr: "wall:6601", ls: NewTCP(6601), rez: "wall:6601"},
		{addr: "wall:6601", ls: NewTCP(6602), rez: "wall:6602"},
		{addr: ":80", ls: NewTCP(80), rez: "localhost"},
		{addr: "https://garbage.com:99a9a", rez: "https://garbage.com:99a9a"},
	}

	for _, test := range tests {
		address := mergeAddresses(test.addr, test.ls)
		if address != test.rez {
			t.Errorf("expected %v, got %v", test.rez, address)
		}
	}
}
