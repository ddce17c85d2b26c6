// Package docker wraps the Docker Engine API for bluepill images and containers.
//
// Every call is a blocking round trip to the engine; nothing is cached between
// calls, so each command sees the engine's current state.
package docker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/mattn/go-isatty"

	"github.com/jeanhaley32/bluepill/internal/constants"
	"github.com/jeanhaley32/bluepill/internal/terminal"
)

// Timeout for reaching the daemon when connecting
const pingTimeout = 5 * time.Second

// Manager implements Engine using the Docker Engine API.
type Manager struct {
	client   *client.Client
	logger   *slog.Logger
	progress io.Writer
	stdin    *os.File
	stdout   *os.File
	input    *terminal.Input
	hostEnv  func() HostEnv
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithProgressOutput sets where pull and build progress is written.
func WithProgressOutput(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.progress = w
	}
}

// WithInput sets the reader sessions take keystrokes from. Share it with any
// prompter that reads after a session so that no input is lost between them.
func WithInput(in *terminal.Input) ManagerOption {
	return func(m *Manager) {
		m.input = in
	}
}

// NewManager connects to the Docker daemon.
func NewManager(ctx context.Context, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		logger:   slog.Default(),
		progress: os.Stdout,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		hostEnv:  DetectHostEnv,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.input == nil {
		m.input = terminal.NewInput(m.stdin)
	}

	cli, err := createDockerClient(ctx, m.logger)
	if err != nil {
		return nil, err
	}
	m.client = cli

	return m, nil
}

// createDockerClient creates a Docker client, trying multiple socket locations
// for compatibility with Docker Desktop on macOS.
func createDockerClient(ctx context.Context, logger *slog.Logger) (*client.Client, error) {
	// First try with environment settings (DOCKER_HOST, etc.)
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err == nil {
		if err = ping(ctx, cli); err == nil {
			return cli, nil
		}
		logger.Debug("docker daemon from environment unreachable", "host", cli.DaemonHost(), "error", err)
		cli.Close()
	}
	envErr := err

	home := os.Getenv("HOME")
	socketPaths := []string{
		"unix://" + home + "/.docker/run/docker.sock", // Docker Desktop macOS
		"unix:///var/run/docker.sock",                 // Linux default
		"unix://" + home + "/.colima/docker.sock",     // Colima
	}

	for _, socketPath := range socketPaths {
		cli, err := client.NewClientWithOpts(
			client.WithHost(socketPath),
			client.WithAPIVersionNegotiation(),
		)
		if err != nil {
			continue
		}

		if err := ping(ctx, cli); err == nil {
			logger.Debug("connected to docker daemon", "host", socketPath)
			return cli, nil
		}
		cli.Close()
	}

	return nil, fmt.Errorf("could not connect to Docker daemon: %w", envErr)
}

func ping(ctx context.Context, cli *client.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := cli.Ping(ctx)
	return err
}

func (m *Manager) ImageExists(ctx context.Context, name string) (bool, error) {
	images, err := m.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}

	for _, img := range images {
		if imageMatches(img.ID, img.RepoTags, name) {
			return true, nil
		}
	}

	return false, nil
}

func (m *Manager) GetContainer(ctx context.Context, name string) (*Container, error) {
	info, err := m.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	c := &Container{
		ID:   info.ID,
		Name: strings.TrimPrefix(info.Name, "/"),
	}
	if info.Config != nil {
		c.Image = info.Config.Image
	}
	if info.State != nil {
		c.State = info.State.Status
		c.Running = info.State.Running
	}

	return c, nil
}

func (m *Manager) CreateContainer(ctx context.Context, spec ContainerSpec) (*Container, error) {
	if spec.Name != "" {
		existing, err := m.GetContainer(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			m.logger.Info("removing existing container", "name", spec.Name, "id", existing.ID)
			if err := m.RemoveContainer(ctx, existing.ID, false); err != nil {
				return nil, fmt.Errorf("failed to remove existing container: %w", err)
			}
		}
	}

	args := BuildContainerArgs(m.hostEnv(), spec.MountWorkDir)

	containerCfg := &container.Config{
		Image:        spec.Image,
		Hostname:     spec.Hostname,
		Env:          args.Env,
		User:         args.User,
		WorkingDir:   args.WorkingDir,
		Tty:          args.Tty,
		OpenStdin:    args.OpenStdin,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Entrypoint:   []string{constants.Shell},
		Cmd:          []string{"-l"},
	}

	hostCfg := &container.HostConfig{
		Mounts:     args.Mounts,
		GroupAdd:   args.GroupAdd,
		UsernsMode: container.UsernsMode(args.UsernsMode),
	}

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	for _, warning := range resp.Warnings {
		m.logger.Warn("container create warning", "name", spec.Name, "warning", warning)
	}

	return &Container{
		ID:    resp.ID,
		Name:  spec.Name,
		Image: spec.Image,
		State: "created",
	}, nil
}

func (m *Manager) StartContainer(ctx context.Context, id string) error {
	if err := m.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

func (m *Manager) Commit(ctx context.Context, id, imageName string) error {
	if _, err := m.client.ContainerCommit(ctx, id, container.CommitOptions{Reference: imageName}); err != nil {
		return fmt.Errorf("failed to commit container: %w", err)
	}
	return nil
}

func (m *Manager) RemoveContainer(ctx context.Context, id string, force bool) error {
	if err := m.client.ContainerRemove(ctx, id, container.RemoveOptions{Force: force}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

func (m *Manager) RemoveImage(ctx context.Context, name string, force bool) error {
	_, err := m.client.ImageRemove(ctx, name, image.RemoveOptions{Force: force, PruneChildren: true})
	if err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// pullImage pulls ref, rendering progress to the progress writer.
func (m *Manager) pullImage(ctx context.Context, ref string) error {
	m.logger.Info("pulling image", "image", ref)

	reader, err := m.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer reader.Close()

	if err := m.displayStream(reader); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	return nil
}

// displayStream renders an engine JSON message stream, returning the first
// error message the engine reports.
func (m *Manager) displayStream(r io.Reader) error {
	var fd uintptr
	isTerm := false
	if f, ok := m.progress.(*os.File); ok {
		fd = f.Fd()
		isTerm = isatty.IsTerminal(fd)
	}
	return jsonmessage.DisplayJSONMessagesStream(r, m.progress, fd, isTerm, nil)
}

// Close closes the Docker client.
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
