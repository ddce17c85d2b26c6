package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/bluepill/internal/logging"
	"github.com/jeanhaley32/bluepill/internal/platform"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "bluepill",
		Short:         "Per-directory development containers",
		Long:          "bluepill gives every working directory its own Docker image and container, with your user, SSH credentials and the directory itself carried inside.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setLogLevel(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "Log level (debug, info, warning, error, critical)")

	rootCmd.AddCommand(
		newBuildCommand(ctx),
		newEnterCommand(ctx),
		newCommitCommand(ctx),
		newRemoveCommand(ctx),
		newConfigCommand(ctx),
		newStatusCommand(ctx),
		newVersionCommand(),
	)
	rootCmd.SetHelpCommand(newHelpCommand(rootCmd))

	return rootCmd
}

func newHelpCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for bluepill or one of its commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return root.Help()
			}
			target, _, err := root.Find(args)
			if err != nil || target == root {
				return fmt.Errorf("unknown command %q", args[0])
			}
			return target.Help()
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bluepill version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", platform.Detect())
		},
	}
}
