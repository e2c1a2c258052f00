// Package commands implements the CLI commands for herddir.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "herddir",
	Short: "Search the AMGR member directory from the command line",
	Long: `Herddir searches the American Meat Goat Registry member directory.

Queries can be given as explicit filters or as a natural-language
sentence that is translated into filters by a language model.

Examples:
  # Explicit filters
  herddir search --state Kansas --breed "American Red"

  # Natural language (needs an API key for a model provider)
  herddir search -n "Find members in Kansas with American Red breed"

  # Interactive natural-language session
  herddir repl`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.herddir.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	// Local .env first, so API keys land in the environment before
	// viper reads it. Absence of the file is fine.
	_ = godotenv.Load(".env")

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".herddir")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HERDDIR")
	viper.AutomaticEnv()

	// Common API key env vars
	_ = viper.BindEnv("api_key", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
