package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the expanded step plan without executing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}

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

			plan, err := c.app.Describe(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			i := 0
			for step := range plan.Walk() {
				i++
				fmt.Fprintf(out, "%2d. %s\n", i, step.Name.String())
				for _, command := range step.Commands {
					fmt.Fprintf(out, "      $ %s\n", strings.Join(command, " "))
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("dev", false, "Plan with the development manifest included")

	return cmd
}
