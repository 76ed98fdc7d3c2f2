// Package source fetches the raw text a plugin printed. Running the plugin
// itself is left to whatever writes the file or serves the URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/scriptbar/internal/logging"
)

// maxOutputSize caps how much plugin output is read.
const maxOutputSize = 4 << 20

// ErrNotFound is returned when the output does not exist.
var ErrNotFound = errors.New("source: output not found")

// Source produces plugin output.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// Options selects a Source. URL takes precedence over Path.
type Options struct {
	Path   string
	URL    string
	APIKey string
}

// New returns the Source described by opts, or nil when neither a path nor a
// URL is set.
func New(opts Options) Source {
	if u := strings.TrimSpace(opts.URL); u != "" {
		return &HTTPSource{URL: u, APIKey: strings.TrimSpace(opts.APIKey)}
	}
	if p := strings.TrimSpace(opts.Path); p != "" {
		return &FileSource{Path: p}
	}
	return nil
}

// readOutput reads at most maxOutputSize bytes from r. Anything beyond the
// cap is dropped and noted in the log.
func readOutput(ctx context.Context, r io.Reader, origin string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxOutputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if len(data) > maxOutputSize {
		logging.FromContext(ctx).V(1).Info("output truncated", "origin", origin, "limit", maxOutputSize)
		data = data[:maxOutputSize]
	}
	return data, nil
}
