package docker

import "context"

// Container is a snapshot of an engine container.
type Container struct {
	ID      string
	Name    string
	Image   string
	State   string
	Running bool
}

// ContainerSpec holds configuration for creating a bluepill container.
type ContainerSpec struct {
	Image    string
	Name     string
	Hostname string

	// MountWorkDir binds the current directory into the container home.
	MountWorkDir bool
}

// Engine handles image and container operations against the container engine.
type Engine interface {
	// ImageExists reports whether name matches a local image id or tag.
	ImageExists(ctx context.Context, name string) (bool, error)

	// GetContainer returns the named container, or nil if there is none.
	GetContainer(ctx context.Context, name string) (*Container, error)

	// AddUserToImage builds dest from source with the host user added.
	AddUserToImage(ctx context.Context, source, dest string) error

	// CreateContainer creates (but does not start) a container, removing any
	// existing container with the same name first.
	CreateContainer(ctx context.Context, spec ContainerSpec) (*Container, error)

	// StartContainer starts a created or stopped container.
	StartContainer(ctx context.Context, id string) error

	// Commit saves the container filesystem as image.
	Commit(ctx context.Context, id, image string) error

	// RemoveContainer removes a container.
	RemoveContainer(ctx context.Context, id string, force bool) error

	// RemoveImage removes an image by name.
	RemoveImage(ctx context.Context, name string, force bool) error

	// Attach runs an interactive session on the container tty until its shell
	// exits, starting the container if needed. Returns the exit code.
	Attach(ctx context.Context, id string) (int, error)
}
