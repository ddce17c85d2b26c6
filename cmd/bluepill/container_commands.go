package main

import (
	"github.com/spf13/cobra"

	"github.com/jeanhaley32/bluepill/internal/commands"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts commands.BuildOptions

	cmd := &cobra.Command{
		Use:   "build [name]",
		Short: "Build the image for the current directory",
		Long:  "Build an image from a source image with your user added. If the image already exists you are asked whether to cancel, replace or edit it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = nameArg(args)
			return ctx.withEngine(cmd, func(app *commands.App) error {
				return app.Build(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Image, "image", "i", ctx.config.DefaultImage, "Source image")
	cmd.Flags().BoolVarP(&opts.Replace, "replace", "r", false, "Replace an existing image without asking")
	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "Open a shell in the image and commit the changes")

	return cmd
}

func newEnterCommand(ctx *commandContext) *cobra.Command {
	var opts commands.EnterOptions

	cmd := &cobra.Command{
		Use:   "enter [name]",
		Short: "Open a shell in the container for the current directory",
		Long:  "Open a login shell in the directory's container, building the image and creating the container first if needed. The current directory is mounted under your home directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = nameArg(args)
			return ctx.withEngine(cmd, func(app *commands.App) error {
				return app.Enter(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Image, "image", "i", ctx.config.DefaultImage, "Source image used if the image must be built")

	return cmd
}

func newCommitCommand(ctx *commandContext) *cobra.Command {
	var opts commands.CommitOptions

	return &cobra.Command{
		Use:   "commit [name]",
		Short: "Save the container's changes to its image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = nameArg(args)
			return ctx.withEngine(cmd, func(app *commands.App) error {
				return app.Commit(cmd.Context(), opts)
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var opts commands.RemoveOptions

	cmd := &cobra.Command{
		Use:     "rm [name]",
		Aliases: []string{"delete"},
		Short:   "Delete the container and optionally the image",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = nameArg(args)
			return ctx.withEngine(cmd, func(app *commands.App) error {
				return app.Remove(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Image, "image", "i", false, "Also delete the image")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Delete without asking, even if in use")

	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var opts commands.StatusOptions

	return &cobra.Command{
		Use:   "status [name]",
		Short: "Show the names and state for the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = nameArg(args)
			return ctx.withEngine(cmd, func(app *commands.App) error {
				return app.Status(cmd.Context(), opts)
			})
		},
	}
}
