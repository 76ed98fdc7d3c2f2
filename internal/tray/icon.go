package tray

import "github.com/example/scriptbar/internal/title"

func cloneIcon(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}

// trayIcon converts an inline image into bytes the platform tray accepts.
// It returns nil when the image cannot be used.
func trayIcon(icon *title.Icon) []byte {
	if icon == nil || len(icon.Data) == 0 {
		return nil
	}
	normalized := platformNormalizeIcon(icon.Data)
	if len(normalized) == 0 {
		return nil
	}
	return cloneIcon(normalized)
}
