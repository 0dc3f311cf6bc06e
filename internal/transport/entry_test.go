package transport

import (
	"context"
	"fmt"
	"path/filepath"
	"rtadp/internal/global"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
)

func ipcEndpoint(t *testing.T, name string) (endpoint string) {
	t.Helper()
	endpoint = "ipc://" + filepath.Join(t.TempDir(), name)
	return
}

func TestNewDataIngress_InvalidType(t *testing.T) {
	_, err := NewDataIngress(context.Background(), "carrier-pigeon", "tcp://localhost:1")
	if err == nil {
		t.Fatalf("expected error for invalid socket type, but got nil")
	}
}

func TestNewResultEgress_NoneDisablesLane(t *testing.T) {
	sock, err := NewResultEgress(context.Background(), global.SocketPushPull, global.EndpointNone)
	if err != nil {
		t.Fatalf("expected no error for none endpoint, but got '%v'", err)
	}
	if sock != nil {
		t.Fatalf("expected nil socket for disabled lane")
	}
	// Nil-safe close
	err = sock.Close()
	if err != nil {
		t.Fatalf("expected nil close to succeed, but got '%v'", err)
	}
}

func TestNewCommand_NoneDisablesSocket(t *testing.T) {
	sock, err := NewCommand(context.Background(), global.EndpointNone)
	if err != nil {
		t.Fatalf("expected no error for none endpoint, but got '%v'", err)
	}
	if sock != nil {
		t.Fatalf("expected nil socket for disabled command channel")
	}
}

func TestPushPullIngress_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	endpoint := ipcEndpoint(t, "data-lp")
	ingress, err := NewDataIngress(ctx, global.SocketPushPull, endpoint)
	if err != nil {
		t.Fatalf("expected no error binding ingress, but got '%v'", err)
	}
	defer ingress.Close()

	producer := zmq4.NewPush(ctx)
	defer producer.Close()
	err = producer.Dial(endpoint)
	if err != nil {
		t.Fatalf("expected no error dialing producer, but got '%v'", err)
	}

	const n = 5
	go func() {
		for i := 0; i < n; i++ {
			_ = producer.Send(zmq4.NewMsg([]byte(fmt.Sprintf("msg-%d", i))))
		}
	}()

	for i := 0; i < n; i++ {
		payload, rerr := ingress.Recv()
		if rerr != nil {
			t.Fatalf("expected no error receiving message %d, but got '%v'", i, rerr)
		}
		want := fmt.Sprintf("msg-%d", i)
		if string(payload) != want {
			t.Fatalf("expected %q, but got %q", want, payload)
		}
	}
}

func TestResultEgress_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	endpoint := ipcEndpoint(t, "result-lp")
	consumer := zmq4.NewPull(ctx)
	defer consumer.Close()
	err := consumer.Listen(endpoint)
	if err != nil {
		t.Fatalf("expected no error binding consumer, but got '%v'", err)
	}

	egress, err := NewResultEgress(ctx, global.SocketPushPull, endpoint)
	if err != nil {
		t.Fatalf("expected no error connecting egress, but got '%v'", err)
	}
	defer egress.Close()

	err = egress.Send([]byte("result-payload"))
	if err != nil {
		t.Fatalf("expected no error sending result, but got '%v'", err)
	}

	msg, err := consumer.Recv()
	if err != nil {
		t.Fatalf("expected no error receiving result, but got '%v'", err)
	}
	if string(msg.Bytes()) != "result-payload" {
		t.Fatalf("expected result-payload, but got %q", msg.Bytes())
	}
}
