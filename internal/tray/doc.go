// Package tray renders a menu.Bar in the system tray.
package tray
