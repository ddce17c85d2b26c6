// Package commands implements the bluepill commands on top of the engine,
// identity and config packages. Each command takes its own options struct and
// writes human-readable output to App.Out and App.Err.
package commands

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeanhaley32/bluepill/internal/config"
	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/identity"
	"github.com/jeanhaley32/bluepill/internal/terminal"
)

// App is the execution context shared by all commands.
type App struct {
	// Engine may be nil for commands that never reach the engine.
	Engine   docker.Engine
	Identity identity.Deriver
	Prompter terminal.Prompter

	Config     *config.Config
	ConfigPath string
	CacheDir   string

	// HostEnv reports host state for status output.
	HostEnv func() docker.HostEnv

	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger

	// NewID returns a short unique suffix for throwaway containers.
	NewID func() string
}

// sourceImage returns the requested source image or the configured default.
func (a *App) sourceImage(requested string) string {
	if requested != "" {
		return requested
	}
	return a.Config.DefaultImage
}

func (a *App) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()[:8]
}
