package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/jeanhaley32/bluepill/internal/constants"
	"github.com/jeanhaley32/bluepill/internal/embedded"
	"github.com/jeanhaley32/bluepill/internal/platform"
)

func (m *Manager) AddUserToImage(ctx context.Context, source, dest string) error {
	u := m.hostEnv().User
	if u.Name == "" {
		return fmt.Errorf("cannot build %s: host username is unknown", dest)
	}

	exists, err := m.ImageExists(ctx, source)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.pullImage(ctx, source); err != nil {
			return err
		}
	}

	// A failed probe is indistinguishable from a missing user
	hasUser, err := m.userExists(ctx, source, u)
	if err != nil {
		m.logger.Debug("user probe failed, assuming user is missing", "image", source, "user", u.Name, "error", err)
		hasUser = false
	}
	m.logger.Info("building image", "source", source, "image", dest, "user_exists", hasUser)

	dockerfile, err := embedded.Dockerfile(embedded.DockerfileParams{
		BaseImage: source,
		Username:  u.Name,
		UID:       u.UID,
		GID:       u.GID,
		Shell:     constants.Shell,
	}, hasUser)
	if err != nil {
		return err
	}

	buildContext, err := archive.Generate("Dockerfile", string(dockerfile))
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}

	resp, err := m.client.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:        []string{dest},
		Dockerfile:  "Dockerfile",
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image %s: %w", dest, err)
	}
	defer resp.Body.Close()

	if err := m.displayStream(resp.Body); err != nil {
		return fmt.Errorf("failed to build image %s: %w", dest, err)
	}

	return nil
}

// userExists runs `id -u <user>` in a throwaway container and reports whether
// it resolves to the host uid.
func (m *Manager) userExists(ctx context.Context, img string, u platform.User) (bool, error) {
	resp, err := m.client.ContainerCreate(ctx, &container.Config{
		Image:      img,
		Entrypoint: []string{"id"},
		Cmd:        []string{"-u", u.Name},
	}, &container.HostConfig{}, nil, nil, "")
	if err != nil {
		return false, fmt.Errorf("failed to create probe container: %w", err)
	}
	defer func() {
		if err := m.client.ContainerRemove(context.WithoutCancel(ctx), resp.ID, container.RemoveOptions{Force: true}); err != nil {
			m.logger.Debug("failed to remove probe container", "id", resp.ID, "error", err)
		}
	}()

	waitCh, errCh := m.client.ContainerWait(ctx, resp.ID, container.WaitConditionNextExit)

	if err := m.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return false, fmt.Errorf("failed to start probe container: %w", err)
	}

	select {
	case result := <-waitCh:
		if result.Error != nil {
			return false, fmt.Errorf("probe container failed: %s", result.Error.Message)
		}
		if result.StatusCode != 0 {
			return false, nil
		}
	case err := <-errCh:
		return false, fmt.Errorf("failed waiting for probe container: %w", err)
	case <-ctx.Done():
		return false, ctx.Err()
	}

	logs, err := m.client.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true})
	if err != nil {
		return false, fmt.Errorf("failed to read probe output: %w", err)
	}
	defer logs.Close()

	var stdout bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, io.Discard, logs); err != nil {
		return false, fmt.Errorf("failed to read probe output: %w", err)
	}

	return strings.TrimSpace(stdout.String()) == u.UIDString(), nil
}
