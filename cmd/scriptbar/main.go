package main

import (
	"fmt"
	"os"

	"github.com/example/scriptbar/internal/logging"
)

func main() {
	exitCode := 0
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
	}

	logging.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
