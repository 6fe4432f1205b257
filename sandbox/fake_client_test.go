package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// notFoundError satisfies the runtime's not-found check.
type notFoundError struct{ ref string }

func (e notFoundError) Error() string { return "no such object: " + e.ref }
func (notFoundError) NotFound()       {}

type containerCreateCall struct {
	id         string
	name       string
	config     *container.Config
	hostConfig *container.HostConfig
}

type waitCall struct {
	status *container.WaitResponse
	err    error
	block  bool
}

type fakeDockerClient struct {
	mu sync.Mutex

	nextID     int
	images     map[string]bool
	inspectErr error
	pulls      []string
	pullErr    map[string]error
	// pullStream is returned as the body of every pull.
	pullStream string

	createCalls []containerCreateCall
	createErr   error
	startErr    error
	wait        waitCall
	logs        []byte
	logsErr     error
	killErr     error
	removeErr   error
	killed      []string
	removed     []string
	listed      []container.Summary
	listOpts    []container.ListOptions
	onCreate    func(call containerCreateCall)
}

var _ DockerClient = (*fakeDockerClient)(nil)

func newFakeDockerClient(images ...string) *fakeDockerClient {
	f := &fakeDockerClient{
		images:  make(map[string]bool),
		pullErr: make(map[string]error),
	}
	for _, ref := range images {
		f.images[ref] = true
	}
	return f
}

func (f *fakeDockerClient) Close() error { return nil }

func (f *fakeDockerClient) ImageInspect(_ context.Context, ref string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inspectErr != nil {
		return image.InspectResponse{}, f.inspectErr
	}
	if !f.images[ref] {
		return image.InspectResponse{}, notFoundError{ref: ref}
	}
	return image.InspectResponse{ID: "sha256:" + ref}, nil
}

func (f *fakeDockerClient) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls = append(f.pulls, ref)
	if err := f.pullErr[ref]; err != nil {
		return nil, err
	}
	f.images[ref] = true
	return io.NopCloser(strings.NewReader(f.pullStream)), nil
}

func (f *fakeDockerClient) ContainerCreate(_ context.Context, config *container.Config, hostConfig *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return container.CreateResponse{}, f.createErr
	}
	call := containerCreateCall{
		id:         fmt.Sprintf("container-%d", f.nextID),
		name:       name,
		config:     config,
		hostConfig: hostConfig,
	}
	f.nextID++
	f.createCalls = append(f.createCalls, call)
	hook := f.onCreate
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return container.CreateResponse{ID: call.id}, nil
}

func (f *fakeDockerClient) ContainerStart(context.Context, string, container.StartOptions) error {
	return f.startErr
}

func (f *fakeDockerClient) ContainerWait(_ context.Context, _ string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	call := f.wait
	f.mu.Unlock()

	if call.block {
		return statusCh, errCh
	}
	if call.status != nil {
		statusCh <- *call.status
	}
	if call.err != nil {
		errCh <- call.err
	}
	return statusCh, errCh
}

func (f *fakeDockerClient) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return io.NopCloser(bytes.NewReader(f.logs)), nil
}

func (f *fakeDockerClient) ContainerKill(_ context.Context, containerID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, containerID)
	return f.killErr
}

func (f *fakeDockerClient) ContainerRemove(_ context.Context, containerID string, options container.RemoveOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !options.Force {
		return errors.New("container is running: stop the container before removing or force remove")
	}
	f.removed = append(f.removed, containerID)
	return f.removeErr
}

func (f *fakeDockerClient) ContainerList(_ context.Context, options container.ListOptions) ([]container.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts = append(f.listOpts, options)
	return f.listed, nil
}

func (f *fakeDockerClient) setExit(code int64) {
	f.mu.Lock()
	f.wait = waitCall{status: &container.WaitResponse{StatusCode: code}}
	f.mu.Unlock()
}

func (f *fakeDockerClient) setLogs(stdout, stderr string) {
	var buf bytes.Buffer
	if stdout != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
		_, _ = w.Write([]byte(stdout))
	}
	if stderr != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stderr)
		_, _ = w.Write([]byte(stderr))
	}
	f.mu.Lock()
	f.logs = buf.Bytes()
	f.mu.Unlock()
}
