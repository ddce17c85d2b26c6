package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/bluepill/internal/commands"
	"github.com/jeanhaley32/bluepill/internal/config"
	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/identity"
	"github.com/jeanhaley32/bluepill/internal/logging"
	"github.com/jeanhaley32/bluepill/internal/terminal"
)

// commandContext holds what every command shares for one invocation.
type commandContext struct {
	levels *slog.LevelVar
	logger *slog.Logger

	paths      *config.Paths
	configPath string
	config     *config.Config

	// stdin is shared by sessions and prompts.
	stdin *terminal.Input
}

func newCommandContext() *commandContext {
	levels := new(slog.LevelVar)
	if level, err := logging.ParseLevel(logging.DefaultLevel); err == nil {
		levels.Set(level)
	}
	logger := logging.New(os.Stderr, levels)

	paths := config.NewPaths()
	path := paths.ConfigFile()

	return &commandContext{
		levels:     levels,
		logger:     logger,
		paths:      paths,
		configPath: path,
		config:     config.Load(path, logger),
		stdin:      terminal.NewInput(os.Stdin),
	}
}

func (c *commandContext) setLogLevel(value string) error {
	level, err := logging.ParseLevel(value)
	if err != nil {
		return err
	}
	c.levels.Set(level)
	return nil
}

// newApp builds an App without an engine; config commands never need one.
func (c *commandContext) newApp(cmd *cobra.Command) *commands.App {
	return &commands.App{
		Identity:   identity.NewDeriver(),
		Prompter:   terminal.NewPrompter(c.stdin),
		Config:     c.config,
		ConfigPath: c.configPath,
		CacheDir:   c.paths.CacheDir(),
		HostEnv:    docker.DetectHostEnv,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
		Logger:     c.logger,
	}
}

// withEngine connects to the Docker daemon for the duration of fn.
func (c *commandContext) withEngine(cmd *cobra.Command, fn func(*commands.App) error) error {
	manager, err := docker.NewManager(cmd.Context(),
		docker.WithLogger(c.logger),
		docker.WithProgressOutput(cmd.OutOrStdout()),
		docker.WithInput(c.stdin),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := manager.Close(); err != nil {
			c.logger.Debug("failed to close docker client", "error", err)
		}
	}()

	app := c.newApp(cmd)
	app.Engine = manager
	return fn(app)
}

func nameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
