//go:build !windows

package tray

import (
	"testing"

	"github.com/example/scriptbar/internal/title"
)

func TestTrayIconCopiesData(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G'}
	icon := &title.Icon{Data: data, MIME: "image/png"}

	got := trayIcon(icon)
	if string(got) != string(data) {
		t.Fatalf("expected icon bytes %v, got %v", data, got)
	}

	got[0] = 0
	if data[0] != 0x89 {
		t.Fatal("trayIcon must not share the source buffer")
	}
}

func TestTrayIconWithoutData(t *testing.T) {
	if got := trayIcon(nil); got != nil {
		t.Fatalf("expected nil for nil icon, got %v", got)
	}
	if got := trayIcon(&title.Icon{}); got != nil {
		t.Fatalf("expected nil for empty icon, got %v", got)
	}
}
