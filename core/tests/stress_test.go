package tests

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/nettest"

	"github.com/searchktools/file-server/core"
	"github.com/searchktools/file-server/core/pools"
)

// TestConcurrentClients runs many more clients than workers and checks
// every one of them gets the whole file.
func TestConcurrentClients(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test")
	}

	root := t.TempDir()
	payload := bytes.Repeat([]byte("0123456789abcdef"), 8192)
	if err := os.WriteFile(filepath.Join(root, "big.zip"), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	ln, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}

	pool := pools.NewWorkerPool(4)
	server := core.NewServer(ln, pool, core.Options{Root: root, Logger: zerolog.Nop()})

	done := make(chan error, 1)
	go func() {
		done <- server.Run()
	}()

	const clients = 64
	var wg sync.WaitGroup
	failures := make(chan string, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				failures <- err.Error()
				return
			}
			defer conn.Close()
			conn.SetDeadline(time.Now().Add(10 * time.Second))

			if _, err := io.WriteString(conn, "GET /big.zip HTTP/1.1\r\n\r\n"); err != nil {
				failures <- err.Error()
				return
			}

			data, err := io.ReadAll(conn)
			if err != nil {
				failures <- err.Error()
				return
			}
			if !bytes.HasSuffix(data, payload) {
				failures <- "truncated body"
			}
		}()
	}

	wg.Wait()
	close(failures)

	for f := range failures {
		t.Errorf("Client failure: %s", f)
	}

	if n := server.RequestsProcessed(); n != clients {
		t.Errorf("Expected %d requests processed, got %d", clients, n)
	}

	if err := server.Stop(); err != nil {
		t.Errorf("Stop error: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	stats := pool.Stats()
	if stats.TasksSubmitted != clients {
		t.Errorf("Expected %d tasks submitted, got %d", clients, stats.TasksSubmitted)
	}
}
