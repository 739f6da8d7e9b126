package main

import (
	"context"
	"errors"
	"time"

	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/control"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/monitoring"
	"github.com/blendwall/blendwall/pkg/os"
	"github.com/blendwall/blendwall/pkg/service"
	"github.com/blendwall/blendwall/pkg/thread"
	flag "github.com/spf13/pflag"
)

var Version = "?"

const (
	defaultConfig   = "configs/config.yaml"
	shutdownTimeout = 5 * time.Second
)

func run() {
	flags := new(config.Flags).WithFlags(flag.CommandLine)
	flag.Parse()

	conf, err := config.Load(flags.Path)
	if err != nil {
		logger.Default().Fatal().Err(err).Msg("config")
	}
	flags.Apply(flag.CommandLine, &conf)
	if err = conf.Validate(); err != nil {
		logger.Default().Fatal().Err(err).Msg("config")
	}

	log := logger.NewFrom(conf.Log.Logger("wall"))
	log.Info().Msgf("version: %v", Version)
	log.Debug().Msgf("config: %+v", conf)

	lock, err := os.DisplayLock(conf.Display.LockDir, conf.Display.Index)
	if err != nil {
		log.Fatal().Err(err).Msg("lock")
	}
	if err = lock.TryLock(); err != nil {
		if errors.Is(err, os.ErrLocked) {
			log.Fatal().Int("display", conf.Display.Index).Msgf("display is taken by another wall, see %v", lock.Path())
		}
		log.Fatal().Err(err).Msg("lock")
	}
	defer func() { _ = lock.Unlock() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHost(ctx, conf, log)
	if err != nil {
		log.Error().Err(err).Msg("wall didn't start")
		return
	}

	var services service.Group
	if conf.Monitoring.IsEnabled() {
		mon, err := monitoring.New(conf.Monitoring, log)
		if err != nil {
			log.Error().Err(err).Msg("monitoring is off")
		} else {
			services.Add(mon)
		}
	}
	if conf.Control.Enabled {
		ctl, err := control.New(conf.Control, h.wall, log)
		if err != nil {
			log.Error().Err(err).Msg("control is off")
		} else {
			services.Add(ctl)
		}
	}
	services.Start()

	if conf.Wall.Watch {
		path := flags.Path
		if path == "" && os.Exists(defaultConfig) {
			path = defaultConfig
		}
		if path != "" {
			go func() {
				if err := config.Watch(ctx, path, h.reload, log.Module("config")); err != nil {
					log.Error().Err(err).Msg("config watch")
				}
			}()
		}
	}

	done := os.ExpectTermination()
	go func() {
		select {
		case <-done:
			log.Info().Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	h.serve(ctx)
	cancel()

	sctx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := services.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	h.close()
}

func main() { thread.Wrap(run) }
