//go:build windows

package main

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// init detaches the console before cobra runs when scriptbar is started as
// a tray app from Explorer or a startup shortcut.
func init() {
	if shouldShowConsole(os.Args[1:]) {
		return
	}
	hideConsoleWindow()
}

// shouldShowConsole reports whether args name a command that prints to the
// terminal. Only "scriptbar run" draws the menu in the notification area and
// runs without a console; SCRIPTBAR_SHOW_CONSOLE keeps it for debugging.
func shouldShowConsole(args []string) bool {
	if os.Getenv("SCRIPTBAR_SHOW_CONSOLE") != "" {
		return true
	}

	for _, raw := range args {
		if strings.EqualFold(strings.TrimSpace(raw), "run") {
			return false
		}
	}
	return true
}

// hideConsoleWindow hides and releases the console the run command inherited.
func hideConsoleWindow() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	user32 := windows.NewLazySystemDLL("user32.dll")

	getConsoleWindow := kernel32.NewProc("GetConsoleWindow")
	showWindow := user32.NewProc("ShowWindow")
	freeConsole := kernel32.NewProc("FreeConsole")

	hwnd, _, _ := getConsoleWindow.Call()
	if hwnd == 0 {
		return
	}

	const swHide = 0
	showWindow.Call(hwnd, swHide)
	freeConsole.Call()
}
