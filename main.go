package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.design/x/clipboard"

	"github.com/manuel-koch/go-serial-hud/internal/acquisition"
	"github.com/manuel-koch/go-serial-hud/internal/config"
	"github.com/manuel-koch/go-serial-hud/internal/device"
	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/logsink"
	"github.com/manuel-koch/go-serial-hud/internal/parser"
	"github.com/manuel-koch/go-serial-hud/internal/render"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

const StatusInterval = time.Second

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()
	logging.SetGlobal(logger)

	accept, err := parser.PredicateByName(cfg.Series.Accept)
	if err != nil {
		return err
	}

	store, err := series.NewStore(cfg.Series.MaxCount, cfg.Series.RollingDivisor)
	if err != nil {
		return err
	}

	port, err := device.Open(device.Config{
		Candidates:  cfg.Device.Candidates,
		Baud:        cfg.Device.Baud,
		ReadTimeout: cfg.Device.ReadTimeout,
	})
	if err != nil {
		return fmt.Errorf("cannot start acquisition (use --device to name the port): %w", err)
	}
	defer port.Close()
	logger.Info("device opened", "path", port.Path, "baud", cfg.Device.Baud)

	var (
		sink     *logsink.Sink
		recorder logsink.Recorder = logsink.Nop{}
	)
	if cfg.Log.Enabled {
		if sink, err = logsink.Open(cfg.Log.Path, cfg.Log.BufferSize, logger); err != nil {
			return err
		}
		defer sink.Close()
		recorder = sink
		logger.Info("logging samples", "path", sink.Path())
	}

	// the window is created last so startup errors never flash it
	var app *App
	if !cfg.Render.Headless {
		if app, err = NewApp("Serial HUD"); err != nil {
			return err
		}
		app.BuildInfo(buildInfo()).OnClearHistory(store.Reset)
		if err := clipboard.Init(); err != nil {
			logger.Warn("clipboard unavailable", "error", err)
		} else {
			app.EnableClipboard()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	acq := acquisition.New(port, parser.New(accept), store, recorder, logger)

	var consumer render.Consumer = render.NewLogConsumer(logger)
	if app != nil {
		consumer = app
	}
	renderer := render.New(store, consumer, cfg.Render.Interval, logger)

	var (
		wg         sync.WaitGroup
		acqErr     error
		acqStopped = make(chan struct{})
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(acqStopped)
		if err := acq.Run(ctx); err != nil {
			logger.Error("acquisition failed", "error", err, "device", port.Path)
			acqErr = err
		}
	}()
	go func() {
		defer wg.Done()
		_ = renderer.Run(ctx)
	}()

	if app != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			updateStatus(ctx, app, port.Path, acq, sink, acqStopped, &acqErr)
		}()
		app.Run()
	} else {
		select {
		case <-ctx.Done():
		case <-acqStopped:
		}
	}

	cancel()
	// acquisition must be done before the sample log gets closed
	wg.Wait()
	return acqErr
}

// updateStatus pushes acquisition and log counters to the window until ctx is done
func updateStatus(ctx context.Context, app *App, path string, acq *acquisition.Task, sink *logsink.Sink, acqStopped <-chan struct{}, acqErr *error) {
	var stopErr error
	for {
		status := Status{Device: path, Acquisition: acq.Stats(), Err: stopErr}
		if sink != nil {
			stats := sink.Stats()
			status.Log = &stats
		}
		app.SetStatus(status)

		select {
		case <-ctx.Done():
			return
		case <-acqStopped:
			stopErr = *acqErr
			acqStopped = nil
		case <-time.After(StatusInterval):
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
