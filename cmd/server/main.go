package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/isdmx/codeexec/config"
	"github.com/isdmx/codeexec/httpserver"
	"github.com/isdmx/codeexec/language"
	"github.com/isdmx/codeexec/logger"
	"github.com/isdmx/codeexec/mcpserver"
	"github.com/isdmx/codeexec/sandbox"
)

func main() {
	fx.New(appOptions()).Run()
}

func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logger.NewFromConfig,
			newRegistry,
			newDockerClient,
			newImageCache,
			newOrchestrator,
			newService,
			httpserver.New,
			mcpserver.New,
		),

		fx.Invoke(registerHTTPServer, registerMCPServer),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
}

func newRegistry(cfg *config.Config) (*language.Registry, error) {
	overrides, err := language.LoadOverrides(cfg.Languages.OverridesFile)
	if err != nil {
		return nil, err
	}
	return language.NewRegistry(map[language.Name]string{
		language.Python:     cfg.Languages.Python.Image,
		language.JavaScript: cfg.Languages.JavaScript.Image,
		language.Golang:     cfg.Languages.Golang.Image,
		language.CPP:        cfg.Languages.CPP.Image,
	}, overrides)
}

func newDockerClient(lc fx.Lifecycle, cfg *config.Config) (sandbox.DockerClient, error) {
	cli, err := sandbox.NewDockerClient(cfg.Sandbox.DockerHost)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cli.Close()
		},
	})
	return cli, nil
}

// newImageCache provisions every profile image and clears containers left
// by a previous run. It blocks fx startup until the images are present.
func newImageCache(cfg *config.Config, cli sandbox.DockerClient, registry *language.Registry, log *zap.Logger) (*sandbox.ImageCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetPullTimeout())
	defer cancel()

	cache, err := sandbox.NewImageCache(ctx, cli, registry.Images(), log)
	if err != nil {
		return nil, err
	}

	if cfg.Sandbox.SweepStale {
		if _, err := sandbox.SweepStaleContainers(ctx, cli, log); err != nil {
			log.Warn("failed to sweep stale containers", zap.Error(err))
		}
	}
	return cache, nil
}

func newOrchestrator(cfg *config.Config, log *zap.Logger, cli sandbox.DockerClient, images *sandbox.ImageCache) *sandbox.Orchestrator {
	limits := sandbox.DefaultConfig()
	limits.Timeout = cfg.GetTimeout()
	limits.MemoryBytes = cfg.GetMemoryBytes()
	limits.CPUPeriod = cfg.Sandbox.CPUPeriod
	limits.CPUQuota = cfg.Sandbox.CPUQuota
	limits.NetworkMode = cfg.Sandbox.NetworkMode
	limits.WorkspaceRoot = cfg.Sandbox.WorkspaceRoot
	limits.MaxOutputBytes = cfg.Sandbox.MaxOutputBytes

	log.Info("sandbox configured",
		zap.Duration("timeout", limits.Timeout),
		zap.Int64("memory_bytes", limits.MemoryBytes),
		zap.Int64("cpu_period", limits.CPUPeriod),
		zap.Int64("cpu_quota", limits.CPUQuota),
		zap.String("network_mode", limits.NetworkMode))

	return sandbox.NewOrchestrator(log, limits, cli, images)
}

func newService(log *zap.Logger, registry *language.Registry, orch *sandbox.Orchestrator) sandbox.SandboxExecutor {
	return sandbox.NewService(log, registry, orch)
}

func registerHTTPServer(lc fx.Lifecycle, srv *httpserver.Server) {
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Stop,
	})
}

func registerMCPServer(lc fx.Lifecycle, cfg *config.Config, srv *mcpserver.MCPServer) {
	if !cfg.MCP.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Stop,
	})
}
