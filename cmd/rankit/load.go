package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/rankit/config"
	"github.com/rushteam/rankit/pkg/logging"
	"github.com/rushteam/rankit/store"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <fixture.yaml>",
		Short: "Load items and user histories into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.Service, cfg.Log.Format, cfg.Log.Level)

			fx, err := store.ReadFixture(args[0])
			if err != nil {
				return err
			}
			kv, err := config.BuildStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := store.LoadCatalog(cmd.Context(), kv, cfg.Store.Prefix, fx.Items, fx.Users); err != nil {
				return err
			}
			logger.Info("fixture_loaded",
				"path", args[0],
				"store", kv.Name(),
				"items", len(fx.Items),
				"users", len(fx.Users),
			)
			return nil
		},
	}
}
