package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	gitlabToken string
)

var rootCmd = &cobra.Command{
	Use:   "mrw-cli",
	Short: "mrw-cli is the command-line interface for MR-Warden.",
	Long: `A CLI for running MR-Warden reviews by hand and for warming the
repository snapshot cache. It reads the same configuration as the server.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		exportFlags()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default config.yml)")
	rootCmd.PersistentFlags().StringVarP(&gitlabToken, "gitlab-token", "t", "", "GitLab access token, overrides gitlab.token")
}

// exportFlags hands flag values to the config loader, which reads
// CONFIG_FILE_PATH and MRW_-prefixed variables.
func exportFlags() {
	if configPath != "" {
		_ = os.Setenv("CONFIG_FILE_PATH", configPath)
	}
	if gitlabToken != "" {
		_ = os.Setenv("MRW_GITLAB_TOKEN", gitlabToken)
	}
}
