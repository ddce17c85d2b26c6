package commands

import (
	"context"
	"fmt"
)

// CommitOptions configures `bluepill commit`.
type CommitOptions struct {
	Name string
}

// Commit saves the directory's container as its image. A missing container is
// reported but is not an error.
func (a *App) Commit(ctx context.Context, opts CommitOptions) error {
	id, err := a.Identity.Derive(opts.Name)
	if err != nil {
		return err
	}

	c, err := a.Engine.GetContainer(ctx, id.ContainerName)
	if err != nil {
		return err
	}
	if c == nil {
		fmt.Fprintf(a.Err, "Container %s not found\n", id.ContainerName)
		return nil
	}

	if err := a.Engine.Commit(ctx, c.ID, id.ImageName); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Committed changes to %s\n", id.ImageName)

	return nil
}
