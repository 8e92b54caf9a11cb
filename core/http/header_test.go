package http

import (
	"testing"

	"github.com/pkg/errors"
)

func TestHeaderDefaults(t *testing.T) {
	h := NewHeader("TestServer")

	want := map[string]string{
		"Connection":     "close",
		"Content-Length": "0",
		"Server":         "TestServer",
	}
	for k, v := range want {
		got, ok := h.Get(k)
		if !ok || got != v {
			t.Errorf("Expected %s=%s, got %q (present=%v)", k, v, got, ok)
		}
	}
	if h.Len() != 3 {
		t.Errorf("Expected 3 default entries, got %d", h.Len())
	}
}

func TestHeaderDefaultsNotShared(t *testing.T) {
	h1 := NewHeader("")
	h2 := NewHeader("")

	h1.Set(HeaderContentLength, "42")

	if v, _ := h2.Get(HeaderContentLength); v != "0" {
		t.Errorf("Expected second table untouched, got Content-Length %s", v)
	}
	if v, _ := h2.Get(HeaderServer); v != DefaultServerName {
		t.Errorf("Expected default server name, got %s", v)
	}
}

func TestHeaderGetAbsent(t *testing.T) {
	h := NewHeader("")
	h.Set("X-Empty", "")

	if _, ok := h.Get("X-Missing"); ok {
		t.Error("Expected missing key to be absent")
	}
	if v, ok := h.Get("X-Empty"); !ok || v != "" {
		t.Errorf("Expected empty value to be present, got %q (present=%v)", v, ok)
	}
}

func TestHeaderSetOverwrites(t *testing.T) {
	h := NewHeader("")
	h.Set("Host", "a")
	h.Set("Host", "b")

	if v, _ := h.Get("Host"); v != "b" {
		t.Errorf("Expected Host=b, got %s", v)
	}
	if h.Len() != 4 {
		t.Errorf("Expected 4 entries, got %d", h.Len())
	}
}

func TestHeaderKeysStableOrder(t *testing.T) {
	h := NewHeader("")
	h.Set("Host", "x")
	h.Set("Accept", "*/*")

	first := h.Keys()
	second := h.Keys()

	want := []string{"Connection", "Content-Length", "Server", "Host", "Accept"}
	if len(first) != len(want) {
		t.Fatalf("Expected %d keys, got %v", len(want), first)
	}
	for i := range want {
		if first[i] != want[i] || second[i] != want[i] {
			t.Errorf("Key %d: expected %s, got %s/%s", i, want[i], first[i], second[i])
		}
	}
}

func TestHeaderAddRaw(t *testing.T) {
	h := NewHeader("")

	if err := h.AddRaw("Host: example.com:8080"); err != nil {
		t.Fatalf("AddRaw error: %v", err)
	}
	if v, _ := h.Get("Host"); v != "example.com:8080" {
		t.Errorf("Expected Host=example.com:8080, got %s", v)
	}
}

func TestHeaderAddRawMalformed(t *testing.T) {
	lines := []string{
		"NoColon",
		"Key:",
		"Key: ",
		"Key:value",
		": value",
	}

	for _, line := range lines {
		h := NewHeader("")
		err := h.AddRaw(line)
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("AddRaw(%q): expected ErrMalformedHeader, got %v", line, err)
		}
	}
}

func BenchmarkHeaderAddRaw(b *testing.B) {
	for i := 0; i < b.N; i++ {
		h := NewHeader("")
		_ = h.AddRaw("User-Agent: bench/1.0")
	}
}
