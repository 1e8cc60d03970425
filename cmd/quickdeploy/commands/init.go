package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/quickdeploy/internal/config"
)

// Init returns the command for interactively creating a server
// configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "quickdeploy.yaml")
//	--force, -f: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a server configuration",
		Long: `Interactively create a server configuration file.

This command guides you through configuring the wizard server
step by step. It will ask about:

  - The listen address
  - The GitHub OAuth application (client ID and secret)
  - The compute platform OAuth application and endpoints
  - Deploy conventions (domain suffix and secret name)

OAuth secrets can also be left out of the file and supplied through
QUICKDEPLOY_* environment variables at serve time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(outputPath); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", outputPath)
				}
			}

			result, err := config.RunWizard(cmd.Context())
			if err != nil {
				return err
			}

			data, err := result.MarshalYAML()
			if err != nil {
				return err
			}

			if err := os.WriteFile(outputPath, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}

			fmt.Printf("Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "quickdeploy.yaml", "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
