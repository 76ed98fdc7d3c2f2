package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileSource reads output a plugin wrote to a file.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return "", fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	data, err := readOutput(ctx, f, s.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
