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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// wrappedCmd runs the full pipeline: extract, then process.
var wrappedCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Extracts play history and generates all wrapped reports",
	Long:  `Runs extract followed by process, producing one report per user.`,
	Run: func(cmd *cobra.Command, args []string) {
		extractConfig := ExtractConfig{
			DbPath:       viper.GetString("database"),
			Year:         viper.GetInt("year"),
			Source:       viper.GetString("source"),
			PlexURL:      viper.GetString("plex_url"),
			PlexToken:    viper.GetString("plex_token"),
			LastFmApiKey: viper.GetString("lastfm_api_key"),
			LastFmSecret: viper.GetString("lastfm_secret"),
			LastFmUsers:  viper.GetStringSlice("lastfm_users"),
		}
		if err := extractHistory(extractConfig); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		processConfig := ProcessConfig{
			DbPath:     viper.GetString("database"),
			Year:       viper.GetInt("year"),
			OutputDir:  viper.GetString("output"),
			TopN:       viper.GetInt("top-n"),
			Workers:    viper.GetInt("workers"),
			AIProvider: viper.GetString("ai_provider"),
			AIApiKey:   viper.GetString("ai_api_key"),
			AIModel:    viper.GetString("ai_model"),
		}
		if err := processReports(processConfig); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(wrappedCmd)
}
