//go:build !cgo && !windows
// +build !cgo,!windows

package tray

import "github.com/example/scriptbar/internal/menu"

// New reports no tray; the system tray needs cgo on this platform.
func New() menu.Tray {
	return nil
}
