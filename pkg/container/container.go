package container

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/docker/docker/client"
)

// Runtime is the subset of container-runtime operations provisioning needs:
// observing container state and reading files out of a running container.
type Runtime interface {
	// ContainerRunning reports whether the named container is in the
	// "running" state. A missing container is an error, not false.
	ContainerRunning(ctx context.Context, name string) (bool, error)

	// ReadFile copies a single file out of a running container and returns
	// its contents.
	ReadFile(ctx context.Context, containerName, path string) ([]byte, error)

	Close() error
}

// DockerRuntime implements Runtime against the Docker Engine API.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the Docker daemon using the standard
// environment settings (DOCKER_HOST etc.).
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to container runtime: %w", err)
	}
	return &DockerRuntime{cli: cli}, nil
}

func (r *DockerRuntime) ContainerRunning(ctx context.Context, name string) (bool, error) {
	info, err := r.cli.ContainerInspect(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to inspect container %q: %w", name, err)
	}
	if info.State == nil {
		return false, nil
	}
	return info.State.Running, nil
}

func (r *DockerRuntime) ReadFile(ctx context.Context, containerName, path string) ([]byte, error) {
	rc, _, err := r.cli.CopyFromContainer(ctx, containerName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s from container %q: %w", path, containerName, err)
	}
	defer func() { _ = rc.Close() }()

	// The Engine API hands back a tar stream even for a single file.
	data, err := extractFromTar(rc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from container %q: %w", path, containerName, err)
	}
	return data, nil
}

func (r *DockerRuntime) Close() error {
	return r.cli.Close()
}

// extractFromTar reads a tar stream and returns the contents of the entry
// whose base name matches name.
func extractFromTar(r io.Reader, name string) ([]byte, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("entry %q not found in archive", name)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if filepath.Base(hdr.Name) != name {
			continue
		}
		return io.ReadAll(tr)
	}
}
