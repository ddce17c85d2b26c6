package constants

import "os"

// Naming constants
const (
	// AppName is the command name and the prefix of derived names.
	AppName = "bluepill"

	// EditContainerPrefix prefixes throwaway containers used by `build --edit`.
	EditContainerPrefix = AppName + "-edit-"
)

// Config-related constants
const (
	// ConfigFileName is the config file name inside the XDG config directory.
	ConfigFileName = AppName + ".json"

	// DefaultImage is the source image used when none is configured.
	DefaultImage = "ubuntu:latest"
)

// Container-related constants
const (
	// Shell is the interactive shell used as container entrypoint.
	Shell = "/bin/bash"

	// SSHAgentTarget is where the host SSH agent socket is mounted in containers.
	SSHAgentTarget = "/ssh-agent"

	// SSHKeyRelPath is the default private key location relative to $HOME.
	SSHKeyRelPath = ".ssh/id_rsa"

	// UsernsModeHost shares the host user namespace mapping with the container.
	UsernsModeHost = "host"
)

// File permissions
const (
	// DirPermissions is the default permission mode for directories.
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for the config file.
	FilePermissions os.FileMode = 0644
)
