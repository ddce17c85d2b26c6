package docker

import (
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/mount"

	"github.com/jeanhaley32/bluepill/internal/constants"
	"github.com/jeanhaley32/bluepill/internal/identity"
	"github.com/jeanhaley32/bluepill/internal/platform"
)

// HostEnv is the host state that shapes container creation. Fields for
// features that are unavailable are left empty.
type HostEnv struct {
	User platform.User

	// Home is the host home directory, reused as the home inside containers.
	Home string

	// SSHAuthSock is the agent socket path when an agent is reachable.
	SSHAuthSock string

	// SSHKey and SSHPublicKey are the default key files when they exist.
	SSHKey       string
	SSHPublicKey string

	// WorkDir is the resolved current directory.
	WorkDir string
}

// ContainerArgs are the creation parameters derived from a HostEnv.
type ContainerArgs struct {
	Env        []string
	Mounts     []mount.Mount
	WorkingDir string
	User       string
	GroupAdd   []string
	UsernsMode string
	OpenStdin  bool
	Tty        bool
}

// DetectHostEnv inspects the environment and filesystem. Anything that cannot be
// read is omitted.
func DetectHostEnv() HostEnv {
	env := HostEnv{Home: os.Getenv("HOME")}
	if env.Home == "" {
		env.Home = "/"
	}

	if u, err := platform.CurrentUser(); err == nil {
		env.User = u
	} else {
		env.User = platform.User{UID: os.Getuid(), GID: os.Getgid()}
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" && exists(sock) {
		env.SSHAuthSock = sock
	}

	key := filepath.Join(env.Home, constants.SSHKeyRelPath)
	if exists(key) {
		env.SSHKey = key
		if exists(key + ".pub") {
			env.SSHPublicKey = key + ".pub"
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		env.WorkDir = identity.ResolveDir(cwd)
	}

	return env
}

// BuildContainerArgs applies the container policy:
//   - USER is always set, SSH_AUTH_SOCK only when the agent socket is mounted
//   - the agent socket wins over key files, never both
//   - mountWorkDir binds the working directory at <home>/<basename> and starts there
func BuildContainerArgs(h HostEnv, mountWorkDir bool) ContainerArgs {
	home := h.Home
	if home == "" {
		home = "/"
	}

	args := ContainerArgs{
		Env:        []string{"USER=" + h.User.Name},
		WorkingDir: home,
		User:       h.User.Name,
		GroupAdd:   []string{h.User.GIDString()},
		UsernsMode: constants.UsernsModeHost,
		OpenStdin:  true,
		Tty:        true,
	}

	switch {
	case h.SSHAuthSock != "":
		args.Env = append(args.Env, "SSH_AUTH_SOCK="+constants.SSHAgentTarget)
		args.Mounts = append(args.Mounts, bind(h.SSHAuthSock, constants.SSHAgentTarget, false))
	case h.SSHKey != "":
		args.Mounts = append(args.Mounts, bind(h.SSHKey, h.SSHKey, true))
		if h.SSHPublicKey != "" {
			args.Mounts = append(args.Mounts, bind(h.SSHPublicKey, h.SSHPublicKey, true))
		}
	}

	if mountWorkDir && h.WorkDir != "" {
		target := filepath.Join(home, filepath.Base(h.WorkDir))
		args.Mounts = append(args.Mounts, bind(h.WorkDir, target, false))
		args.WorkingDir = target
	}

	return args
}

func bind(source, target string, readOnly bool) mount.Mount {
	return mount.Mount{
		Type:     mount.TypeBind,
		Source:   source,
		Target:   target,
		ReadOnly: readOnly,
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
