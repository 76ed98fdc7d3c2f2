package ipc

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, Endpoint{Network: "tcp", Address: defaultServiceAddress}, Resolve(""))
	assert.Equal(t, Endpoint{Network: "tcp", Address: "127.0.0.1:1234"}, Resolve(" 127.0.0.1:1234 "))
	assert.Equal(t, Endpoint{Network: "unix", Address: "/run/scriptbar.sock"}, Resolve("unix:/run/scriptbar.sock"))
	assert.Equal(t, "unix:///run/scriptbar.sock", Resolve("unix:/run/scriptbar.sock").String())
}

func TestDefaultEndpointReadsEnvironment(t *testing.T) {
	t.Setenv("SCRIPTBAR_SERVICE_ADDR", "127.0.0.1:5555")
	assert.Equal(t, "tcp://127.0.0.1:5555", DefaultEndpoint().String())
}

func TestListenAndDialUnixSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets are not used on windows")
	}
	ep := Resolve("unix:" + filepath.Join(t.TempDir(), "s.sock"))

	ln, err := ep.Listen()
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	conn, err := ep.DialContext(context.Background())
	require.NoError(t, err)
	conn.Close()

	_, err = ep.Listen()
	assert.Error(t, err, "a live socket must not be replaced")
}
