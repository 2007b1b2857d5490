/*
Copyright 2026 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string
var databasePath string
var outputDir string
var reportYear int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plex-wrapped",
	Short: "Generates a personalized year-in-music report from play history",
	Long: `Extracts play history from a media server, computes per-user listening
statistics, and produces shareable wrapped-style reports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.plex-wrapped.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./wrapped.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVarP(
		&outputDir, "output", "o", "./wrapped-output", "Directory for generated reports")
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.PersistentFlags().IntVarP(
		&reportYear, "year", "y", time.Now().Year(), "Report year")
	viper.BindPFlag("year", rootCmd.PersistentFlags().Lookup("year"))

	var plexURL string
	rootCmd.PersistentFlags().StringVar(&plexURL, "plex_url", "", "Plex server URL")
	viper.BindPFlag("plex_url", rootCmd.PersistentFlags().Lookup("plex_url"))

	var plexToken string
	rootCmd.PersistentFlags().StringVar(&plexToken, "plex_token", "", "Plex authentication token")
	viper.BindPFlag("plex_token", rootCmd.PersistentFlags().Lookup("plex_token"))

	var lastFmApiKey string
	rootCmd.PersistentFlags().StringVar(&lastFmApiKey, "lastfm_api_key", "", "last.fm API key")
	viper.BindPFlag("lastfm_api_key", rootCmd.PersistentFlags().Lookup("lastfm_api_key"))

	var lastFmSecret string
	rootCmd.PersistentFlags().StringVar(&lastFmSecret, "lastfm_secret", "", "last.fm secret")
	viper.BindPFlag("lastfm_secret", rootCmd.PersistentFlags().Lookup("lastfm_secret"))

	var lastFmUsers []string
	rootCmd.PersistentFlags().StringSliceVar(&lastFmUsers, "lastfm_users", nil, "last.fm usernames to extract")
	viper.BindPFlag("lastfm_users", rootCmd.PersistentFlags().Lookup("lastfm_users"))

	var aiProvider string
	rootCmd.PersistentFlags().StringVar(&aiProvider, "ai_provider", "none", "AI provider: anthropic, openai, or none")
	viper.BindPFlag("ai_provider", rootCmd.PersistentFlags().Lookup("ai_provider"))

	var aiApiKey string
	rootCmd.PersistentFlags().StringVar(&aiApiKey, "ai_api_key", "", "AI provider API key")
	viper.BindPFlag("ai_api_key", rootCmd.PersistentFlags().Lookup("ai_api_key"))

	var aiModel string
	rootCmd.PersistentFlags().StringVar(&aiModel, "ai_model", "", "AI model ID (provider default if empty)")
	viper.BindPFlag("ai_model", rootCmd.PersistentFlags().Lookup("ai_model"))

	var sendgridApiKey string
	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".plex-wrapped" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".plex-wrapped")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}
