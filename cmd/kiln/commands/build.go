package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Execute the build procedure for the recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}

			// Only an explicitly passed flag overrides the environment.
			if cmd.Flags().Changed("dev") {
				dev, err := cmd.Flags().GetBool("dev")
				if err != nil {
					return err
				}
				if dev {
					opts.DevFlag = "true"
				} else {
					opts.DevFlag = "false"
				}
			}

			opts.NoCache, err = cmd.Flags().GetBool("no-cache")
			if err != nil {
				return err
			}

			return c.app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().Bool("dev", false, "Install the development manifest (overrides DEV env/.env)")
	cmd.Flags().Bool("no-cache", false, "Execute every step, ignoring the layer cache")

	return cmd
}
