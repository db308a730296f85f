package cmd

import (
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/server"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the reelbox api server",
	Long:  `start the reelbox api server`,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		cfg := readConfig()

		catalogClient, err := newCatalog(cfg.TMDB)
		if err != nil {
			log.Fatalw("failed to create catalog client", "error", err)
		}

		collections, closeStore := openCollections(ctx, cfg)
		defer closeStore()

		srv := server.New(log, collections, catalogClient, collationTag(cfg.Query))
		if err := srv.Serve(cfg.Server.Port); err != nil {
			log.Errorw("server stopped", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
