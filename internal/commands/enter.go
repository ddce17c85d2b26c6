package commands

import (
	"context"
	"fmt"

	"github.com/jeanhaley32/bluepill/internal/docker"
)

// EnterOptions configures `bluepill enter`.
type EnterOptions struct {
	Name string
	// Image is the source image used only when the bluepill image must be built.
	Image string
}

// Enter opens a shell in the directory's container, creating the image and
// container first when they are missing. The container is kept afterwards.
func (a *App) Enter(ctx context.Context, opts EnterOptions) error {
	id, err := a.Identity.Derive(opts.Name)
	if err != nil {
		return err
	}

	c, err := a.Engine.GetContainer(ctx, id.ContainerName)
	if err != nil {
		return err
	}

	if c == nil {
		exists, err := a.Engine.ImageExists(ctx, id.ImageName)
		if err != nil {
			return err
		}
		if !exists {
			source := a.sourceImage(opts.Image)
			fmt.Fprintf(a.Out, "Building image %s from %s...\n", id.ImageName, source)
			if err := a.Engine.AddUserToImage(ctx, source, id.ImageName); err != nil {
				return err
			}
		}

		c, err = a.Engine.CreateContainer(ctx, docker.ContainerSpec{
			Image:        id.ImageName,
			Name:         id.ContainerName,
			Hostname:     id.Hostname,
			MountWorkDir: true,
		})
		if err != nil {
			return err
		}
		a.Logger.Info("created container", "name", id.ContainerName, "id", c.ID)
	}

	code, err := a.Engine.Attach(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("shell session failed: %w", err)
	}
	a.Logger.Debug("shell exited", "name", id.ContainerName, "status", code)

	return nil
}
