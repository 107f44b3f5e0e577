//go:build !cgo
// +build !cgo

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/appengine-ltd/fungi/internal/tui"
)

// Without cgo there is no raylib window, so the terminal client is the only
// one available and -tui is implied.
func main() {
	opts := parseFlags()
	if opts.showVersion {
		printVersion()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := setup(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = tui.Run(ctx, a.session, tui.Options{Sound: a.sound, Logger: a.logger})
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
