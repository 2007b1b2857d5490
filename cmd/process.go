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
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/plex-wrapped/internal/ai"
	"github.com/ademuri/plex-wrapped/internal/report"
	"github.com/ademuri/plex-wrapped/internal/store"
)

type ProcessConfig struct {
	DbPath     string
	Year       int
	OutputDir  string
	User       string
	TopN       int
	Workers    int
	AIProvider string
	AIApiKey   string
	AIModel    string
}

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Computes wrapped reports from stored play history",
	Long: `Runs the ranking, temporal, and quirky-fact analysis for each user,
optionally generates AI narrative content, and writes one JSON report per user.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ProcessConfig{
			DbPath:     viper.GetString("database"),
			Year:       viper.GetInt("year"),
			OutputDir:  viper.GetString("output"),
			User:       viper.GetString("process-user"),
			TopN:       viper.GetInt("top-n"),
			Workers:    viper.GetInt("workers"),
			AIProvider: viper.GetString("ai_provider"),
			AIApiKey:   viper.GetString("ai_api_key"),
			AIModel:    viper.GetString("ai_model"),
		}

		err := processReports(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	var user string
	processCmd.Flags().StringVar(&user, "process-user", "", "Only process this user (default: all)")
	viper.BindPFlag("process-user", processCmd.Flags().Lookup("process-user"))

	var topN int
	processCmd.Flags().IntVar(&topN, "top-n", 10, "Number of entries in each top list")
	viper.BindPFlag("top-n", processCmd.Flags().Lookup("top-n"))

	var workers int
	processCmd.Flags().IntVar(&workers, "workers", 4, "Number of users to process concurrently")
	viper.BindPFlag("workers", processCmd.Flags().Lookup("workers"))
}

func processReports(config ProcessConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	provider, err := ai.NewProvider(config.AIProvider, config.AIApiKey, config.AIModel)
	if err != nil {
		return err
	}

	var users []string
	if config.User != "" {
		users = []string{config.User}
	} else {
		summaries, err := db.ListUsers()
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
		for _, s := range summaries {
			users = append(users, s.Name)
		}
	}
	if len(users) == 0 {
		return fmt.Errorf("no users in database - run extract first")
	}

	// Each user's history is loaded up front; the analysis itself shares no
	// state between users, so it fans out across a bounded worker pool.
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	dataDir := filepath.Join(config.OutputDir, "data")
	ctx := context.Background()

	type task struct {
		user string
	}
	tasks := make(chan task)
	errs := make(chan error, len(users))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if err := processUser(ctx, db, provider, config, dataDir, t.user); err != nil {
					errs <- fmt.Errorf("processing %q: %w", t.user, err)
				}
			}
		}()
	}

	for _, user := range users {
		tasks <- task{user: user}
	}
	close(tasks)
	wg.Wait()
	close(errs)

	for err := range errs {
		// Report the first failure; the rest were already attempted.
		return err
	}

	fmt.Printf("Processed %d users into %s\n", len(users), dataDir)
	return nil
}

func processUser(ctx context.Context, db *store.Store, provider ai.Provider, config ProcessConfig, dataDir, user string) error {
	fmt.Printf("Processing user: %s\n", user)

	history, err := db.LoadHistory(user, config.Year)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if history.TotalEvents() == 0 {
		fmt.Printf("  No plays for %q in %d, skipping\n", user, config.Year)
		return nil
	}

	r := report.Assemble(history, config.TopN)

	if config.AIProvider != "" && config.AIProvider != "none" {
		fmt.Printf("  Generating AI insights for %s...\n", user)
		r.AIContent = ai.GenerateAll(ctx, provider, r)
	}

	path, err := report.Write(r, dataDir)
	if err != nil {
		return err
	}
	fmt.Printf("  Saved report to %s\n", path)
	return nil
}
