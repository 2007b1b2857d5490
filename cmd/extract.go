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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/plex-wrapped/internal/extract"
	"github.com/ademuri/plex-wrapped/internal/store"
)

type ExtractConfig struct {
	DbPath       string
	Year         int
	Source       string
	PlexURL      string
	PlexToken    string
	LastFmApiKey string
	LastFmSecret string
	LastFmUsers  []string
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetches a year of play history from the configured source",
	Long:  `Stores play events in a local SQLite database for later processing.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ExtractConfig{
			DbPath:       viper.GetString("database"),
			Year:         viper.GetInt("year"),
			Source:       viper.GetString("source"),
			PlexURL:      viper.GetString("plex_url"),
			PlexToken:    viper.GetString("plex_token"),
			LastFmApiKey: viper.GetString("lastfm_api_key"),
			LastFmSecret: viper.GetString("lastfm_secret"),
			LastFmUsers:  viper.GetStringSlice("lastfm_users"),
		}

		err := extractHistory(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	var source string
	extractCmd.Flags().StringVar(&source, "source", "plex", "Play history source: plex or lastfm")
	viper.BindPFlag("source", extractCmd.Flags().Lookup("source"))
}

func newSource(config ExtractConfig) (extract.Source, error) {
	switch config.Source {
	case "plex":
		if config.PlexURL == "" || config.PlexToken == "" {
			return nil, fmt.Errorf("plex source requires --plex_url and --plex_token")
		}
		return extract.NewPlexSource(config.PlexURL, config.PlexToken), nil

	case "lastfm":
		if config.LastFmApiKey == "" || config.LastFmSecret == "" {
			return nil, fmt.Errorf("lastfm source requires --lastfm_api_key and --lastfm_secret")
		}
		if len(config.LastFmUsers) == 0 {
			return nil, fmt.Errorf("lastfm source requires --lastfm_users")
		}
		return extract.NewLastFmSource(config.LastFmApiKey, config.LastFmSecret, config.LastFmUsers), nil

	default:
		return nil, fmt.Errorf("unknown source %q", config.Source)
	}
}

func extractHistory(config ExtractConfig) error {
	source, err := newSource(config)
	if err != nil {
		return err
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Extracting %d play history from %s\n", config.Year, config.Source)
	histories, err := source.ExtractAll(context.Background(), config.Year)
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	now := time.Now()
	for _, history := range histories {
		if err := db.CreateUser(history.User, history.AvatarURL); err != nil {
			return fmt.Errorf("creating user %q: %w", history.User, err)
		}
		if err := db.AddPlays(history.User, history.Events); err != nil {
			return fmt.Errorf("storing plays for %q: %w", history.User, err)
		}
		if err := db.SetLastUpdated(history.User, now); err != nil {
			return err
		}
		fmt.Printf("Stored %d plays for %q\n", history.TotalEvents(), history.User)
	}

	fmt.Printf("Extracted data for %d users\n", len(histories))
	return nil
}
