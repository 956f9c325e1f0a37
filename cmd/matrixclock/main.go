// Command matrixclock shows the time on a chain of MAX7219 LED matrices and,
// every few seconds, the temperature and humidity read from an AHT10.
//
// Usage:
//
//	matrixclock [-config clock.yaml] [-clean] [-debug]
//	matrixclock init-config [-config clock.yaml]
//
// init-config writes the default settings. -clean opens the display, blanks
// it and exits. Without -clean the clock runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/flavioheleno/matrixclock/config"
	"github.com/flavioheleno/matrixclock/internal/app"
	"github.com/flavioheleno/matrixclock/internal/log"
	"github.com/flavioheleno/matrixclock/scheduler"
)

const defaultConfig = "./clock.yaml"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if stage := scheduler.StageOf(err); stage != "" {
			fmt.Fprintf(os.Stderr, "FAILED at %s: %v\n", stage, err)
		} else {
			fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("FINISHED.")
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "init-config" {
		return initConfig(args[1:])
	}

	fs := flag.NewFlagSet("matrixclock", flag.ContinueOnError)
	path := fs.String("config", defaultConfig, "Settings file")
	clean := fs.Bool("clean", false, "Blank the display and exit")
	debug := fs.Bool("debug", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := log.New(*debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.IntoContext(ctx, logger)

	logger.Info("starting", zap.String("config", *path), zap.Bool("clean", *clean))
	err = (&app.Env{}).Run(ctx, cfg, *clean)
	if errors.Is(err, context.Canceled) {
		logger.Info("stopped by signal")
		return nil
	}
	return err
}

func initConfig(args []string) error {
	fs := flag.NewFlagSet("init-config", flag.ContinueOnError)
	path := fs.String("config", defaultConfig, "Settings file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return config.Default().Save(*path)
}
