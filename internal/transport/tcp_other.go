//go:build !linux

package transport

import (
	"context"
	"fmt"
	"net"

	ncerr "echosrv/internal/errors"
)

// listenTCP falls back to the standard listener; the backlog is left
// to the operating system on these platforms.
func listenTCP(ctx context.Context, port, _ int) (net.Listener, error) {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp4", addr)
	if err != nil {
		return nil, ncerr.Setup("listen", addr, err)
	}
	return ln, nil
}
