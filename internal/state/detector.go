package state

import (
	"context"

	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/identity"
)

// SSH forwarding modes
const (
	SSHAgent = "agent"
	SSHKey   = "key"
	SSHNone  = "none"
)

// EnvironmentState represents what exists for one bluepill identity.
type EnvironmentState struct {
	Identity identity.Identity

	ImageExists      bool
	ContainerExists  bool
	ContainerRunning bool
	ContainerID      string
	ContainerState   string
	ContainerImage   string

	// SSHForwarding is how a newly created container would reach SSH credentials.
	SSHForwarding string
}

// Inspector is the read-only part of the engine the detector needs.
type Inspector interface {
	ImageExists(ctx context.Context, name string) (bool, error)
	GetContainer(ctx context.Context, name string) (*docker.Container, error)
}

// Detector checks the state of the environment.
type Detector struct {
	engine  Inspector
	hostEnv docker.HostEnv
}

// NewDetector creates a new state detector.
func NewDetector(engine Inspector, hostEnv docker.HostEnv) *Detector {
	return &Detector{
		engine:  engine,
		hostEnv: hostEnv,
	}
}

// Detect checks all aspects of the environment state.
func (d *Detector) Detect(ctx context.Context, id identity.Identity) (*EnvironmentState, error) {
	state := &EnvironmentState{
		Identity:      id,
		SSHForwarding: d.sshForwarding(),
	}

	imageExists, err := d.engine.ImageExists(ctx, id.ImageName)
	if err != nil {
		return nil, err
	}
	state.ImageExists = imageExists

	c, err := d.engine.GetContainer(ctx, id.ContainerName)
	if err != nil {
		return nil, err
	}
	if c != nil {
		state.ContainerExists = true
		state.ContainerRunning = c.Running
		state.ContainerID = c.ID
		state.ContainerState = c.State
		state.ContainerImage = c.Image
	}

	return state, nil
}

// sshForwarding mirrors the container policy: agent first, then key files.
func (d *Detector) sshForwarding() string {
	switch {
	case d.hostEnv.SSHAuthSock != "":
		return SSHAgent
	case d.hostEnv.SSHKey != "":
		return SSHKey
	default:
		return SSHNone
	}
}
