// ZeroMQ socket construction for the pipeline's four socket roles
package transport

import (
	"context"
	"fmt"
	"rtadp/internal/global"

	"github.com/go-zeromq/zmq4"
)

// Creates an ingress data socket: pull-bind for pushpull, sub-connect with an
// empty topic filter for pubsub
func NewDataIngress(ctx context.Context, socketType string, endpoint string) (sock *Socket, err error) {
	switch socketType {
	case global.SocketPushPull:
		zsock := zmq4.NewPull(ctx)
		err = zsock.Listen(endpoint)
		if err != nil {
			err = fmt.Errorf("failed binding ingress socket %s: %v", endpoint, err)
			return
		}
		sock = &Socket{zsock: zsock, endpoint: endpoint, role: "ingress-pull"}
	case global.SocketPubSub:
		zsock := zmq4.NewSub(ctx)
		err = zsock.Dial(endpoint)
		if err != nil {
			err = fmt.Errorf("failed connecting ingress socket %s: %v", endpoint, err)
			return
		}
		err = zsock.SetOption(zmq4.OptionSubscribe, "")
		if err != nil {
			err = fmt.Errorf("failed subscribing ingress socket %s: %v", endpoint, err)
			return
		}
		sock = &Socket{zsock: zsock, endpoint: endpoint, role: "ingress-sub"}
	default:
		err = fmt.Errorf("datasocket_type must be pushpull or pubsub, got %q", socketType)
	}
	return
}

// Creates a result egress socket: push-connect for pushpull, pub-bind for
// pubsub. A "none" endpoint yields a nil socket (lane disabled).
func NewResultEgress(ctx context.Context, socketType string, endpoint string) (sock *Socket, err error) {
	if endpoint == global.EndpointNone {
		return
	}

	switch socketType {
	case global.SocketPushPull:
		zsock := zmq4.NewPush(ctx)
		err = zsock.Dial(endpoint)
		if err != nil {
			err = fmt.Errorf("failed connecting result socket %s: %v", endpoint, err)
			return
		}
		sock = &Socket{zsock: zsock, endpoint: endpoint, role: "result-push"}
	case global.SocketPubSub:
		zsock := zmq4.NewPub(ctx)
		err = zsock.Listen(endpoint)
		if err != nil {
			err = fmt.Errorf("failed binding result socket %s: %v", endpoint, err)
			return
		}
		sock = &Socket{zsock: zsock, endpoint: endpoint, role: "result-pub"}
	default:
		err = fmt.Errorf("result_socket_type must be pushpull or pubsub, got %q", socketType)
	}
	return
}

// Creates the command subscriber with an empty topic filter. A "none"
// endpoint yields a nil socket; commands then arrive only through the
// supervisor's in-process entry point.
func NewCommand(ctx context.Context, endpoint string) (sock *Socket, err error) {
	if endpoint == global.EndpointNone {
		return
	}

	zsock := zmq4.NewSub(ctx)
	err = zsock.Dial(endpoint)
	if err != nil {
		err = fmt.Errorf("failed connecting command socket %s: %v", endpoint, err)
		return
	}
	err = zsock.SetOption(zmq4.OptionSubscribe, "")
	if err != nil {
		err = fmt.Errorf("failed subscribing command socket %s: %v", endpoint, err)
		return
	}
	sock = &Socket{zsock: zsock, endpoint: endpoint, role: "command-sub"}
	return
}

// Creates the monitoring push socket. A "none" endpoint yields a nil socket;
// telemetry is then dropped at the emitter.
func NewMonitoring(ctx context.Context, endpoint string) (sock *Socket, err error) {
	if endpoint == global.EndpointNone {
		return
	}

	zsock := zmq4.NewPush(ctx)
	err = zsock.Dial(endpoint)
	if err != nil {
		err = fmt.Errorf("failed connecting monitoring socket %s: %v", endpoint, err)
		return
	}
	sock = &Socket{zsock: zsock, endpoint: endpoint, role: "monitoring-push"}
	return
}

// Receives one message payload, blocking until data or socket closure
func (sock *Socket) Recv() (payload []byte, err error) {
	msg, err := sock.zsock.Recv()
	if err != nil {
		return
	}
	payload = msg.Bytes()
	return
}

// Sends one message payload
func (sock *Socket) Send(payload []byte) (err error) {
	err = sock.zsock.Send(zmq4.NewMsg(payload))
	return
}

// Closes the socket, unblocking any pending Recv. Nil-safe.
func (sock *Socket) Close() (err error) {
	if sock == nil {
		return
	}
	err = sock.zsock.Close()
	return
}
