package util

import (
	"fmt"
	"net"
	"strconv"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// PeerAddr returns the remote address of conn, or "unknown" when the
// transport cannot report one (e.g. some SSH forwarded channels).
func PeerAddr(conn net.Conn) string {
	if conn == nil {
		return "unknown"
	}
	a := conn.RemoteAddr()
	if a == nil {
		return "unknown"
	}
	return a.String()
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
