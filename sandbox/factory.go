package sandbox

import (
	"fmt"

	"github.com/docker/docker/client"
)

// NewDockerClient connects to the container runtime. An empty host uses the
// environment (DOCKER_HOST and friends); any Docker-compatible socket, such
// as Podman's, can be given explicitly.
func NewDockerClient(host string) (*client.Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return cli, nil
}
