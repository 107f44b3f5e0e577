//go:build cgo

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/appengine-ltd/fungi/internal/gui"
	"github.com/appengine-ltd/fungi/internal/tui"
)

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

	if opts.tui {
		err = tui.Run(ctx, a.session, tui.Options{Sound: a.sound, Logger: a.logger})
	} else {
		err = gui.NewApp(a.session, gui.AppConfig{Sound: a.sound, Logger: a.logger}).Run()
	}
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
