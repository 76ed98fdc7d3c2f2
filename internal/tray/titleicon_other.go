//go:build (cgo || windows) && !darwin
// +build cgo windows
// +build !darwin

package tray

import "github.com/getlantern/systray"

func setTitleIcon(icon []byte, _ bool) {
	systray.SetIcon(icon)
}
