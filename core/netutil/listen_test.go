package netutil

import (
	"context"
	"net"
	"testing"
)

func TestListen(t *testing.T) {
	ln, err := Listen(context.Background(), "127.0.0.1:0", Options{})
	if err != nil {
		t.Fatalf("Listen error: %v", err)
	}
	defer ln.Close()

	if _, ok := ln.Addr().(*net.TCPAddr); !ok {
		t.Errorf("Expected TCP address, got %T", ln.Addr())
	}
}

func TestListenReusePort(t *testing.T) {
	ln1, err := Listen(context.Background(), "127.0.0.1:0", Options{ReusePort: true})
	if err != nil {
		t.Skipf("SO_REUSEPORT unavailable: %v", err)
	}
	defer ln1.Close()

	ln2, err := Listen(context.Background(), ln1.Addr().String(), Options{ReusePort: true})
	if err != nil {
		t.Fatalf("Expected second listener on %s, got %v", ln1.Addr(), err)
	}
	ln2.Close()
}

func TestListenBadAddress(t *testing.T) {
	if _, err := Listen(context.Background(), "127.0.0.1:notaport", Options{}); err == nil {
		t.Error("Expected error for bad address")
	}
}
