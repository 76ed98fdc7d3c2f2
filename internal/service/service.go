// Package service exposes a Bar on a local endpoint so other processes can
// push content, request refreshes and activate entries.
package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/example/scriptbar/internal/directive"
	"github.com/example/scriptbar/internal/ipc"
	"github.com/example/scriptbar/internal/logging"
	"github.com/example/scriptbar/internal/menu"
	"github.com/example/scriptbar/internal/parser"
	"github.com/example/scriptbar/internal/protocol"
)

const connectionTimeout = 30 * time.Second

// Service serves control requests for one Bar.
type Service struct {
	bar      *menu.Bar
	token    string
	endpoint ipc.Endpoint
}

// New returns a Service for bar. Every request must carry token.
func New(bar *menu.Bar, token string, endpoint ipc.Endpoint) (*Service, error) {
	if bar == nil {
		return nil, errors.New("nil menu")
	}
	if token == "" {
		return nil, errors.New("service token could not be resolved; set SCRIPTBAR_SERVICE_TOKEN or SCRIPTBAR_SECRET")
	}
	return &Service{bar: bar, token: token, endpoint: endpoint}, nil
}

// Endpoint exposes the listening endpoint for logging and diagnostics.
func (s *Service) Endpoint() string {
	return s.endpoint.String()
}

// Run listens on the endpoint and serves requests until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	listener, err := s.endpoint.Listen()
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.endpoint.String(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is canceled. It closes
// listener on return.
func (s *Service) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()
	log := logging.FromContext(ctx)
	log.Info("control service listening", "endpoint", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Info("control service shutting down")
				return context.Canceled
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Error(err, "temporary accept error")
				time.Sleep(250 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept connection: %w", err)
		}

		go s.handleConnection(ctx, conn)
	}
}

func (s *Service) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(connectionTimeout))
	}

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var req protocol.Request
	if err := decoder.Decode(&req); err != nil {
		logging.FromContext(ctx).Error(err, "failed to decode request")
		return
	}

	if !s.authorize(req.Token) {
		_ = encoder.Encode(protocol.Response{Error: "unauthorized"})
		return
	}

	_ = encoder.Encode(s.handle(ctx, req))
}

func (s *Service) handle(ctx context.Context, req protocol.Request) protocol.Response {
	logging.FromContext(ctx).V(1).Info("control request", "command", req.Command)

	switch req.Command {
	case protocol.CommandContentPush:
		changed := s.bar.Update(ctx, req.Content)
		return protocol.Response{Changed: changed, Menu: Snapshot(s.bar)}
	case protocol.CommandMenuRefresh:
		s.bar.RequestRefresh()
		return protocol.Response{}
	case protocol.CommandMenuGet:
		return protocol.Response{Menu: Snapshot(s.bar)}
	case protocol.CommandMenuOpen:
		s.bar.Open()
		return protocol.Response{Menu: Snapshot(s.bar)}
	case protocol.CommandMenuClose:
		s.bar.Close(ctx)
		return protocol.Response{Menu: Snapshot(s.bar)}
	case protocol.CommandMenuActivate:
		h, err := parser.ParseHandle(req.Handle)
		if err != nil {
			return protocol.Response{Error: err.Error()}
		}
		a, err := s.bar.Activate(ctx, h)
		if err != nil {
			return protocol.Response{Error: err.Error()}
		}
		return protocol.Response{Action: a.Kind.String()}
	case protocol.CommandMenuPress:
		combo, err := directive.ParseShortcut(req.Shortcut)
		if err != nil {
			return protocol.Response{Error: err.Error()}
		}
		a, err := s.bar.Press(ctx, combo)
		if err != nil {
			return protocol.Response{Error: err.Error()}
		}
		return protocol.Response{Action: a.Kind.String()}
	default:
		return protocol.Response{Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func (s *Service) authorize(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}
