// Package commands defines the CLI command structure and flag bindings.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the quickdeploy CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickdeploy",
		Short: "One-click deploys of edge-compute template repositories",
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
