package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reelbox",
	Short: "reelbox cli",
	Long:  `reelbox keeps your favorite, watched, queued and rated movies`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}

func initConfig() {
	// the default config file is optional
	if cfgFile != "config.yaml" || fileExists(cfgFile) {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("REELBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	viper.SetDefault("tmdb.scheme", "https")
	viper.SetDefault("tmdb.host", "api.themoviedb.org")
	viper.SetDefault("tmdb.apiKey", "")
	viper.SetDefault("tmdb.language", "en-US")

	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.filePath", "reelbox.sqlite")
	viper.SetDefault("storage.dir", "reelbox.badger")

	viper.SetDefault("server.port", 8080)

	viper.SetDefault("query.locale", "en")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
