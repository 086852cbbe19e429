package util

import (
	"net"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"1.2.3.4", 22, "1.2.3.4:22"},
		{"", 56789, ":56789"},
		{"::1", 443, "[::1]:443"},
	}
	for _, tt := range tests {
		if got := FormatAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if port < 1 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
}

func TestPeerAddr(t *testing.T) {
	if got := PeerAddr(nil); got != "unknown" {
		t.Errorf("PeerAddr(nil) = %q", got)
	}

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if got := PeerAddr(a); got != "pipe" {
		t.Errorf("PeerAddr(pipe) = %q, want %q", got, "pipe")
	}
}
