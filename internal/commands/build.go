package commands

import (
	"context"
	"fmt"

	"github.com/jeanhaley32/bluepill/internal/constants"
	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/identity"
)

// BuildOptions configures `bluepill build`.
type BuildOptions struct {
	// Name overrides the directory-derived image name.
	Name string
	// Image is the source image; empty means the configured default.
	Image string
	// Replace rebuilds an existing image without asking.
	Replace bool
	// Edit opens a shell in a throwaway container and offers to commit it.
	Edit bool
}

// Choices offered when the image already exists
const (
	choiceCancel = iota
	choiceReplace
	choiceEdit
)

var buildChoices = []string{"Cancel", "Replace", "Edit"}

// Build creates the bluepill image for the current directory.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	id, err := a.Identity.Derive(opts.Name)
	if err != nil {
		return err
	}

	exists, err := a.Engine.ImageExists(ctx, id.ImageName)
	if err != nil {
		return err
	}

	rebuild := !exists || opts.Replace
	edit := opts.Edit

	if exists && !opts.Replace && !opts.Edit {
		choice, err := a.Prompter.Choose(fmt.Sprintf("Image '%s' already exists:", id.ImageName), buildChoices, choiceCancel)
		if err != nil {
			return err
		}
		switch choice {
		case choiceReplace:
			rebuild = true
		case choiceEdit:
			edit = true
		default:
			fmt.Fprintln(a.Out, "Build cancelled.")
			return nil
		}
	}

	if rebuild {
		source := a.sourceImage(opts.Image)
		fmt.Fprintf(a.Out, "Building image %s from %s...\n", id.ImageName, source)
		if err := a.Engine.AddUserToImage(ctx, source, id.ImageName); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Built image %s\n", id.ImageName)
	}

	if edit {
		return a.editImage(ctx, id)
	}

	return nil
}

// editImage runs a shell in a throwaway container of the image and, after a
// clean exit, offers to commit the changes back. The container is always removed.
func (a *App) editImage(ctx context.Context, id identity.Identity) error {
	c, err := a.Engine.CreateContainer(ctx, docker.ContainerSpec{
		Image:    id.ImageName,
		Name:     constants.EditContainerPrefix + a.newID(),
		Hostname: id.Hostname,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Engine.RemoveContainer(context.WithoutCancel(ctx), c.ID, true); err != nil {
			a.Logger.Warn("failed to remove edit container", "name", c.Name, "error", err)
		}
	}()

	code, err := a.Engine.Attach(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("edit session failed: %w", err)
	}
	if code != 0 {
		fmt.Fprintf(a.Err, "Shell exited with status %d, changes not committed\n", code)
		return nil
	}

	ok, err := a.Prompter.Confirm(fmt.Sprintf("Commit changes to %s?", id.ImageName), true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.Engine.Commit(ctx, c.ID, id.ImageName); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Committed changes to %s\n", id.ImageName)

	return nil
}
