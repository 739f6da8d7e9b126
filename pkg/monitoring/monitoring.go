package monitoring

import (
	"context"
	"fmt"
	"net/http/pprof"

	"github.com/blendwall/blendwall/pkg/config/monitoring"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/network/httpx"
	"github.com/blendwall/blendwall/pkg/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Monitoring struct {
	service.RunnableService

	conf   monitoring.Config
	server *httpx.Server
	log    *logger.Logger
}

// New creates new monitoring service.
func New(conf monitoring.Config, log *logger.Logger) (*Monitoring, error) {
	log = log.Module("monitoring")
	serv, err := httpx.NewServer(
		fmt.Sprintf(":%d", conf.Port),
		func(serv *httpx.Server) httpx.Handler {
			h := httpx.NewServeMux(conf.URLPrefix)

			if conf.ProfilingEnabled {
				prefix := "/debug/pprof"
				log.Info().Msgf("Profiling is enabled at %v", serv.Addr+conf.URLPrefix+prefix)
				h.HandleFunc(prefix+"/", pprof.Index)
				h.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
				h.HandleFunc(prefix+"/profile", pprof.Profile)
				h.HandleFunc(prefix+"/symbol", pprof.Symbol)
				h.HandleFunc(prefix+"/trace", pprof.Trace)
				// named profiles under a custom prefix need explicit handlers
				for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
					h.Handle(prefix+"/"+name, pprof.Handler(name))
				}
			}

			if conf.MetricEnabled {
				log.Info().Msgf("Prometheus metric is enabled at %v", serv.Addr+conf.URLPrefix+"/metrics")
				h.Handle("/metrics", promhttp.Handler())
			}

			return h
		},
		httpx.WithPortRoll(true),
		httpx.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}
	return &Monitoring{conf: conf, server: serv, log: log}, nil
}

func (m *Monitoring) Run() {
	m.log.Info().Msgf("Starting monitoring server at %v", m.server.Addr)
	m.server.Run()
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	m.log.Info().Msg("Shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) Port() int { return m.server.Port() }

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
