package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const (
	defaultServiceAddress = "127.0.0.1:47863"
	unixPrefix            = "unix:"
)

// Endpoint is where the control service listens.
type Endpoint struct {
	Network string
	Address string
}

// DefaultEndpoint resolves the endpoint from SCRIPTBAR_SERVICE_ADDR.
func DefaultEndpoint() Endpoint {
	return Resolve(os.Getenv("SCRIPTBAR_SERVICE_ADDR"))
}

// Resolve turns a configured address into an Endpoint. "unix:/path" selects
// a unix socket; anything else is a TCP address. Empty uses the loopback
// default.
func Resolve(address string) Endpoint {
	address = strings.TrimSpace(address)
	if address == "" {
		return Endpoint{Network: "tcp", Address: defaultServiceAddress}
	}
	if path, ok := strings.CutPrefix(address, unixPrefix); ok {
		return Endpoint{Network: "unix", Address: path}
	}
	return Endpoint{Network: "tcp", Address: address}
}

// Listen binds to the configured endpoint. A stale unix socket file is
// removed first.
func (e Endpoint) Listen() (net.Listener, error) {
	if e.Network == "unix" {
		if _, err := os.Stat(e.Address); err == nil {
			if conn, err := net.DialTimeout("unix", e.Address, time.Second); err == nil {
				conn.Close()
				return nil, fmt.Errorf("%s is already in use", e.Address)
			}
			_ = os.Remove(e.Address)
		}
	}
	return net.Listen(e.Network, e.Address)
}

// DialContext establishes a client connection with sensible timeouts.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext(ctx, e.Network, e.Address)
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}
