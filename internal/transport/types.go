package transport

import (
	"net"

	"github.com/go-zeromq/zmq4"
)

// Socket wraps a ZeroMQ socket together with its configured endpoint.
// A socket has exactly one owning goroutine; only that goroutine may call
// Send or Recv.
type Socket struct {
	zsock    zmq4.Socket
	endpoint string
	role     string
}

// Configured endpoint string (tcp://..., ipc://...)
func (sock *Socket) Endpoint() (endpoint string) {
	if sock == nil {
		return
	}
	endpoint = sock.endpoint
	return
}

// Resolved local address after a bind, nil otherwise
func (sock *Socket) Addr() (addr net.Addr) {
	if sock == nil {
		return
	}
	addr = sock.zsock.Addr()
	return
}
