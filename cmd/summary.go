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
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/plex-wrapped/internal/report"
	"github.com/ademuri/plex-wrapped/internal/stats"
	"github.com/ademuri/plex-wrapped/internal/store"
)

var summaryLimit int

var summaryCmd = &cobra.Command{
	Use:   "summary <user>",
	Short: "Prints a user's wrapped summary as text",
	Long:  `Shows ranked artists, albums, and tracks plus temporal listening facts for the report year.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printSummary(os.Stdout, viper.GetString("database"), args[0], viper.GetInt("year"), summaryLimit)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryLimit, "limit", 10, "Number of entries per top list")
}

func printSummary(out io.Writer, dbPath, user string, year, limit int) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	history, err := db.LoadHistory(user, year)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if history.TotalEvents() == 0 {
		return fmt.Errorf("no plays for %q in %d - run extract first", user, year)
	}

	r := report.Assemble(history, limit)

	fmt.Fprintf(out, "Wrapped %d for %s\n", r.Year, r.User)
	fmt.Fprintf(out, "Total plays: %d (%.0f minutes)\n", r.Total.TotalPlays, r.Total.TotalMinutes)
	fmt.Fprintf(out, "Unique: %d artists, %d albums, %d tracks\n\n",
		r.Total.UniqueArtists, r.Total.UniqueAlbums, r.Total.UniqueTracks)

	fmt.Fprintf(out, "## Top %d Artists\n", limit)
	err = renderRanked(out, []string{"Artist", "Plays", "Minutes"}, r.Top.Artists, func(item stats.RankedItem) []string {
		return []string{item.Name, strconv.Itoa(item.Plays), fmt.Sprintf("%.1f", item.Minutes)}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n## Top %d Albums\n", limit)
	err = renderRanked(out, []string{"Album", "Artist", "Plays", "Minutes"}, r.Top.Albums, func(item stats.RankedItem) []string {
		return []string{item.Name, item.Artist, strconv.Itoa(item.Plays), fmt.Sprintf("%.1f", item.Minutes)}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n## Top %d Tracks\n", limit)
	err = renderRanked(out, []string{"Track", "Artist", "Plays", "Minutes"}, r.Top.Tracks, func(item stats.RankedItem) []string {
		return []string{item.Name, item.Artist, strconv.Itoa(item.Plays), fmt.Sprintf("%.1f", item.Minutes)}
	})
	if err != nil {
		return err
	}

	tp := r.TimePatterns
	fmt.Fprintf(out, "\nPeak listening hour: %d:00\n", tp.PeakHour)
	fmt.Fprintf(out, "Peak listening day: %s\n", dayName(tp.PeakDayOfWeek))
	if tp.PeakDay.Date != "" {
		fmt.Fprintf(out, "Biggest day: %s (%d plays, %.0f minutes)\n",
			tp.PeakDay.Date, tp.PeakDay.Plays, tp.PeakDay.Minutes)
	}
	fmt.Fprintf(out, "Longest streak: %d days\n", tp.LongestStreak)

	if fact := tp.Quirky.LateNightAnthem; fact != nil {
		fmt.Fprintf(out, "Late night anthem: %s - %s (%d plays after midnight)\n",
			fact.Track, fact.Artist, fact.Plays)
	}
	if fact := tp.Quirky.WeekendAnthem; fact != nil {
		fmt.Fprintf(out, "%s anthem: %s - %s (%d plays)\n",
			fact.Day, fact.Track, fact.Artist, fact.Plays)
	}
	if fact := tp.Quirky.MostRepeatedSingleDay; fact != nil {
		fmt.Fprintf(out, "Most repeats in one day: %s - %s, %d times on %s\n",
			fact.Track, fact.Artist, fact.Plays, fact.Date)
	}

	return nil
}

func renderRanked(out io.Writer, header []string, items []stats.RankedItem, row func(stats.RankedItem) []string) error {
	table := tablewriter.NewWriter(out)
	table.Header(header)
	for _, item := range items {
		if err := table.Append(row(item)); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

func dayName(weekday int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if weekday < 0 || weekday >= len(names) {
		return "Unknown"
	}
	return names[weekday]
}
