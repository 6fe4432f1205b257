package sandbox

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/isdmx/codeexec/language"
)

// Execution states, logged as the orchestrator moves through them.
const (
	stateCreated          = "CREATED"
	stateWorkspaceReady   = "WORKSPACE_READY"
	stateContainerStarted = "CONTAINER_STARTED"
	stateCompleted        = "COMPLETED"
	stateTimedOut         = "TIMED_OUT"
	stateCrashed          = "CRASHED"
	stateReaped           = "REAPED"
)

// Error strings reported for runs without a process exit.
const (
	ErrMsgTimedOut    = "timed out"
	ErrMsgInterrupted = "interrupted"
)

var errSandboxFailed = errors.New("sandbox failed")

// Orchestrator runs one program per container and always cleans up after it.
type Orchestrator struct {
	logger     *zap.Logger
	config     Config
	client     ContainerClient
	images     *ImageCache
	workspaces *WorkspaceManager
	newID      func() string
}

// OrchestratorOption is a functional option for configuring Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithWorkspaceManager sets where workspaces are created
func WithWorkspaceManager(m *WorkspaceManager) OrchestratorOption {
	return func(o *Orchestrator) {
		o.workspaces = m
	}
}

// WithIDGenerator sets how execution ids are generated
func WithIDGenerator(fn func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.newID = fn
	}
}

// NewOrchestrator creates a new Orchestrator with optional configuration
func NewOrchestrator(logger *zap.Logger, cfg Config, cli ContainerClient, images *ImageCache, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		logger:     logger,
		config:     cfg,
		client:     cli,
		images:     images,
		workspaces: NewWorkspaceManager(cfg.WorkspaceRoot, RealFileSystem{}),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.config.CleanupTimeout <= 0 {
		o.config.CleanupTimeout = DefaultConfig().CleanupTimeout
	}
	return o
}

// Run executes code for profile after installing deps. Failures are
// reported through the Result; the workspace and container are released
// before Run returns.
func (o *Orchestrator) Run(ctx context.Context, profile *language.Profile, code string, deps language.DependencySet) (result Result) {
	start := time.Now()
	id := o.newID()
	log := o.logger.With(zap.String("execution_id", id), zap.String("language", string(profile.Language)))
	log.Debug("execution state", zap.String("state", stateCreated))

	defer func() {
		result.Duration = time.Since(start)
		log.Info("execution finished",
			zap.Int("exit_code", result.ExitCode),
			zap.String("error", result.Error),
			zap.Duration("duration", result.Duration))
	}()

	ws, err := o.workspaces.Create(id)
	if err != nil {
		log.Error("failed to create workspace", zap.Error(err))
		return crashed(err)
	}
	defer func() {
		if err := ws.Destroy(); err != nil {
			log.Error("failed to remove workspace", zap.String("path", ws.Path), zap.Error(err))
		}
		log.Debug("execution state", zap.String("state", stateReaped))
	}()

	if err := ws.WriteSource(profile.SourceFile, code); err != nil {
		log.Error("failed to prepare workspace", zap.Error(err))
		return crashed(err)
	}
	if err := ws.WriteInstallScript(profile.Toolchain.InstallScript(deps)); err != nil {
		log.Error("failed to prepare workspace", zap.Error(err))
		return crashed(err)
	}
	log.Debug("execution state", zap.String("state", stateWorkspaceReady), zap.String("path", ws.Path))

	if !o.images.Has(profile.Image) {
		log.Error("image not provisioned", zap.String("image", profile.Image))
		return crashed(fmt.Errorf("image %s is not provisioned", profile.Image))
	}

	result = o.runContainer(ctx, log, id, profile, ws)

	installLog, err := ws.ReadInstallLog()
	if err != nil {
		log.Warn("failed to read install log", zap.Error(err))
	}
	result.InstallLog = installLog
	return result
}

func (o *Orchestrator) runContainer(ctx context.Context, log *zap.Logger, id string, profile *language.Profile, ws *Workspace) Result {
	containerID, err := o.createContainer(ctx, id, profile, ws)
	if err != nil {
		log.Error("failed to create container", zap.Error(err))
		return crashed(err)
	}
	log = log.With(zap.String("container_id", shortID(containerID)))
	defer o.removeContainer(log, containerID)

	if err := o.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		log.Error("failed to start container", zap.Error(err))
		return crashed(fmt.Errorf("start container: %w", err))
	}
	log.Debug("execution state", zap.String("state", stateContainerStarted))

	waitCtx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	status, err := o.waitForExit(waitCtx, containerID)
	if err != nil {
		return o.abort(log, containerID, o.describeWaitFailure(ctx, waitCtx, err))
	}

	log.Debug("execution state", zap.String("state", stateCompleted), zap.Int64("status_code", status.StatusCode))
	stdout, stderr, err := o.fetchLogs(containerID)
	result := Result{Stdout: stdout, Stderr: stderr, ExitCode: int(status.StatusCode)}
	if err != nil {
		log.Warn("failed to capture output", zap.Error(err))
		result.Error = err.Error()
	}
	return result
}

func (o *Orchestrator) createContainer(ctx context.Context, id string, profile *language.Profile, ws *Workspace) (string, error) {
	script := "./" + InstallScriptName + " > " + InstallLogName + " 2>&1 && " + shellquote.Join(profile.RunCommand...)

	cfg := &container.Config{
		Image:      profile.Image,
		Cmd:        []string{"sh", "-c", script},
		WorkingDir: profile.WorkDir,
		Labels: map[string]string{
			LabelManaged:     "true",
			LabelExecutionID: id,
		},
	}
	hostCfg := &container.HostConfig{
		Binds:       []string{ws.Path + ":" + path.Clean(profile.WorkDir) + ":rw"},
		NetworkMode: container.NetworkMode(o.config.NetworkMode),
		Resources: container.Resources{
			Memory:     o.config.MemoryBytes,
			MemorySwap: o.config.MemoryBytes,
			CPUPeriod:  o.config.CPUPeriod,
			CPUQuota:   o.config.CPUQuota,
		},
	}

	resp, err := o.client.ContainerCreate(ctx, cfg, hostCfg, nil, nil, "codeexec-"+id)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	return resp.ID, nil
}

func (o *Orchestrator) waitForExit(ctx context.Context, containerID string) (container.WaitResponse, error) {
	statusCh, errCh := o.client.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	select {
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return status, fmt.Errorf("%w: %s", errSandboxFailed, status.Error.Message)
		}
		return status, nil
	case err := <-errCh:
		return container.WaitResponse{}, err
	case <-ctx.Done():
		return container.WaitResponse{}, ctx.Err()
	}
}

// describeWaitFailure turns a failed wait into the reported error string.
func (o *Orchestrator) describeWaitFailure(parent, waitCtx context.Context, err error) string {
	switch {
	case errors.Is(err, errSandboxFailed):
		return err.Error()
	case parent.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded):
		return ErrMsgTimedOut
	case parent.Err() != nil:
		return ErrMsgInterrupted + ": " + parent.Err().Error()
	default:
		return ErrMsgInterrupted + ": " + err.Error()
	}
}

// abort kills a container that did not exit on its own and salvages what
// output it can.
func (o *Orchestrator) abort(log *zap.Logger, containerID, reason string) Result {
	state := stateTimedOut
	if reason != ErrMsgTimedOut {
		state = stateCrashed
	}
	log.Warn("execution aborted", zap.String("state", state), zap.String("reason", reason))

	ctx, cancel := o.cleanupContext()
	err := o.client.ContainerKill(ctx, containerID, "SIGKILL")
	cancel()
	if err != nil {
		log.Warn("failed to kill container", zap.Error(err))
	}

	result := Result{ExitCode: NoExitCode, Error: reason}
	stdout, stderr, err := o.fetchLogs(containerID)
	if err != nil {
		log.Warn("failed to capture output", zap.Error(err))
		return result
	}
	result.Stdout, result.Stderr = stdout, stderr
	return result
}

func (o *Orchestrator) fetchLogs(containerID string) (string, string, error) {
	ctx, cancel := o.cleanupContext()
	defer cancel()

	rc, err := o.client.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", fmt.Errorf("fetch logs: %w", err)
	}
	defer rc.Close()

	stdout := newCappedBuffer(o.config.MaxOutputBytes)
	stderr := newCappedBuffer(o.config.MaxOutputBytes)
	if _, err := stdcopy.StdCopy(stdout, stderr, rc); err != nil {
		return "", "", fmt.Errorf("demultiplex logs: %w", err)
	}
	return stdout.String(), stderr.String(), nil
}

func (o *Orchestrator) removeContainer(log *zap.Logger, containerID string) {
	ctx, cancel := o.cleanupContext()
	defer cancel()

	err := o.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true, RemoveVolumes: true})
	if err != nil && !client.IsErrNotFound(err) {
		log.Error("failed to remove container", zap.Error(err))
		return
	}
	log.Debug("container removed")
}

// cleanupContext is detached from the request so cleanup still runs after
// the caller has gone away.
func (o *Orchestrator) cleanupContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.config.CleanupTimeout)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
