package sandbox

import (
	"context"

	"go.uber.org/zap"

	"github.com/isdmx/codeexec/language"
)

// Runner executes resolved code in a sandbox.
type Runner interface {
	Run(ctx context.Context, profile *language.Profile, code string, deps language.DependencySet) Result
}

// Service implements SandboxExecutor on top of a profile registry and a Runner.
type Service struct {
	logger   *zap.Logger
	registry *language.Registry
	runner   Runner
}

// NewService creates a new Service
func NewService(logger *zap.Logger, registry *language.Registry, runner Runner) *Service {
	return &Service{
		logger:   logger,
		registry: registry,
		runner:   runner,
	}
}

var _ SandboxExecutor = (*Service)(nil)

// Execute resolves the language, extracts dependencies and runs the code.
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (Result, error) {
	profile, err := s.registry.Resolve(req.Language)
	if err != nil {
		s.logger.Info("rejected execution request", zap.String("language", req.Language))
		return Result{}, err
	}

	version := req.Version
	if version == "" {
		version = DefaultVersion
	}
	deps := profile.Toolchain.ExtractDependencies(req.Code)
	s.logger.Info("executing code",
		zap.String("language", string(profile.Language)),
		zap.String("version", version),
		zap.Strings("dependencies", deps.Sorted()))

	return s.runner.Run(ctx, profile, req.Code, deps), nil
}
