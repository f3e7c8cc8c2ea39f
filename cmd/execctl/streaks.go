package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/spf13/cobra"
)

var (
	logDate     string
	logDeepWork int
	logGym      bool
	logLearning int
	logSober    bool
	logNotes    string
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Inspect and repair streak counters",
}

var streaksShowCmd = &cobra.Command{
	Use:   "show <email>",
	Short: "Print a user's streaks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		u, err := service.NewAuthService(db).FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rows, err := service.NewStreakService(db).List(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCURRENT\tLONGEST\tLAST")
		for _, s := range rows {
			last := "-"
			if s.LastLoggedDate != nil {
				last = *s.LastLoggedDate
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.StreakType, s.CurrentCount, s.LongestCount, last)
		}
		return w.Flush()
	},
}

var streaksRebuildCmd = &cobra.Command{
	Use:   "rebuild <email>",
	Short: "Recompute a user's streaks by replaying every log in date order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		u, err := service.NewAuthService(db).FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		n, err := service.NewStreakService(db).Rebuild(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "replayed %d logs for %s\n", n, u.Email)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <email>",
	Short: "Record a day's metrics for a user (defaults to today)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := model.Day(time.Now())
		if logDate != "" {
			d, err := model.ParseDate(logDate)
			if err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			date = d
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		u, err := service.NewAuthService(db).FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		req := model.CreateDailyLogRequest{
			DeepWorkMinutes: logDeepWork, GymCompleted: logGym,
			LearningMinutes: logLearning, AlcoholFree: logSober,
		}
		if logNotes != "" {
			req.Notes = &logNotes
		}
		daily := service.NewDailyService(db, service.NewStreakService(db), nil)
		l, err := daily.Upsert(cmd.Context(), u.ID, date, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged %s for %s\n", model.FormatDate(l.LogDate), u.Email)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "log date YYYY-MM-DD")
	logCmd.Flags().IntVar(&logDeepWork, "deep-work", 0, "deep work minutes")
	logCmd.Flags().BoolVar(&logGym, "gym", false, "gym completed")
	logCmd.Flags().IntVar(&logLearning, "learning", 0, "learning minutes")
	logCmd.Flags().BoolVar(&logSober, "sober", false, "alcohol free")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "free-form notes")

	streaksCmd.AddCommand(streaksShowCmd, streaksRebuildCmd)
	rootCmd.AddCommand(streaksCmd, logCmd)
}
