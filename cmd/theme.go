package cmd

import (
	"fmt"

	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/spf13/cobra"
)

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "show or change the display theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(collection.ThemeDark), string(collection.ThemeLight), "toggle"},
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		collections, closeStore := openCollections(ctx, readConfig())
		defer closeStore()

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), collections.Theme())
			return
		}

		var (
			change collection.Change
			err    error
		)
		if args[0] == "toggle" {
			change, err = collections.ToggleTheme(ctx)
		} else {
			change, err = collections.SetTheme(ctx, collection.ThemeName(args[0]))
		}
		if err != nil {
			log.Fatalw("failed to change theme", "error", err)
		}

		printChange(cmd.OutOrStdout(), change)
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
