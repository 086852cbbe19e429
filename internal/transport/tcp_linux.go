//go:build linux

package transport

import (
	"context"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	ncerr "echosrv/internal/errors"
)

// listenTCP builds the socket by hand so the backlog reaches listen(2);
// net.Listen always uses the kernel's somaxconn.
func listenTCP(_ context.Context, port, backlog int) (net.Listener, error) {
	addr := fmt.Sprintf(":%d", port)

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, ncerr.Setup("socket", addr, err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, ncerr.Setup("socket", addr, fmt.Errorf("SO_REUSEADDR: %w", err))
	}

	// INADDR_ANY: the zero Addr.
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return nil, ncerr.Setup("bind", addr, err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, ncerr.Setup("listen", addr, err)
	}

	// FileListener dups the descriptor; our copy is closed with f.
	f := os.NewFile(uintptr(fd), "tcp:"+addr)
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, ncerr.Setup("listen", addr, err)
	}
	return ln, nil
}
