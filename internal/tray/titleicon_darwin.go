//go:build darwin && cgo
// +build darwin,cgo

package tray

import "github.com/getlantern/systray"

func setTitleIcon(icon []byte, template bool) {
	if template {
		systray.SetTemplateIcon(icon, icon)
		return
	}
	systray.SetIcon(icon)
}
