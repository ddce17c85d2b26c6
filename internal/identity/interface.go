package identity

// Identity is the set of names bluepill uses for one working directory.
type Identity struct {
	// Dir is the absolute, symlink-resolved working directory.
	Dir string

	ContainerName string
	ImageName     string
	Hostname      string
}

// Deriver produces identities for the current working directory.
type Deriver interface {
	// Derive returns the identity for the current directory. A non-empty explicit
	// name overrides the container, image and host names.
	Derive(explicit string) (Identity, error)
}
