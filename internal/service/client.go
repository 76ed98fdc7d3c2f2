package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/scriptbar/internal/ipc"
	"github.com/example/scriptbar/internal/protocol"
)

// Send delivers req to the service at endpoint and waits for the reply. A
// reply carrying an error is returned as a Go error.
func Send(ctx context.Context, endpoint ipc.Endpoint, req protocol.Request) (*protocol.Response, error) {
	conn, err := endpoint.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", endpoint.String(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(connectionTimeout))
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var resp protocol.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return &resp, errors.New(resp.Error)
	}
	return &resp, nil
}
