package commands

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imamik/quickdeploy/internal/config"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
	"github.com/imamik/quickdeploy/internal/server"
)

// Serve returns the command that runs the wizard server.
//
// Flags:
//
//	--config, -c: Path to the configuration file (default "quickdeploy.yaml")
func Serve() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the deploy wizard server",
		Long: `Run the deploy wizard server.

The server is stateless: per-visitor workflow state travels in a session
cookie, so multiple instances can serve the same traffic without shared
storage. Configuration comes from the YAML file plus QUICKDEPLOY_*
environment overrides for the OAuth secrets.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg,
				github.NewFactory(cfg.GitHub.APIURL),
				compute.NewFactory(cfg.Compute.APIURL),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("Listening on %s", cfg.Listen)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "quickdeploy.yaml", "Path to the configuration file")

	return cmd
}
