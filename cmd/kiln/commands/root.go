// Package commands implements the CLI commands for the kiln build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "A staged container image build orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("recipe", "c", "kiln.yaml", "Path to the recipe file")
	rootCmd.PersistentFlags().String("context", ".", "Build context directory")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// buildOptions collects the shared flags into the app's option struct.
func (c *CLI) buildOptions(cmd *cobra.Command) (app.BuildOptions, error) {
	recipe, err := cmd.Flags().GetString("recipe")
	if err != nil {
		return app.BuildOptions{}, err
	}
	root, err := cmd.Flags().GetString("context")
	if err != nil {
		return app.BuildOptions{}, err
	}
	return app.BuildOptions{
		RecipePath: recipe,
		Root:       root,
	}, nil
}
