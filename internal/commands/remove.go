package commands

import (
	"context"
	"fmt"
)

// RemoveOptions configures `bluepill rm`.
type RemoveOptions struct {
	Name string
	// Image also removes the image.
	Image bool
	// Force skips confirmation and the engine's in-use checks.
	Force bool
}

// Remove deletes the directory's container and optionally its image. Targets
// that do not exist are skipped silently.
func (a *App) Remove(ctx context.Context, opts RemoveOptions) error {
	id, err := a.Identity.Derive(opts.Name)
	if err != nil {
		return err
	}

	c, err := a.Engine.GetContainer(ctx, id.ContainerName)
	if err != nil {
		return err
	}
	if c != nil {
		ok, err := a.confirmDelete("container", c.Name, opts.Force)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := a.Engine.RemoveContainer(ctx, c.ID, opts.Force); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Deleted container %s\n", c.Name)
	}

	if !opts.Image {
		return nil
	}

	exists, err := a.Engine.ImageExists(ctx, id.ImageName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	ok, err := a.confirmDelete("image", id.ImageName, opts.Force)
	if err != nil || !ok {
		return err
	}
	if err := a.Engine.RemoveImage(ctx, id.ImageName, opts.Force); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted image %s\n", id.ImageName)

	return nil
}

func (a *App) confirmDelete(kind, name string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return a.Prompter.Confirm(fmt.Sprintf("Delete %s %s?", kind, name), true)
}
