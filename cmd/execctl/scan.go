package main

import (
	"fmt"
	"time"

	"execution-os/internal/service"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one inactivity scan cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		warnings := service.NewWarningService(db, nil, nil)
		daily := service.NewDailyService(db, service.NewStreakService(db), nil)
		n, err := service.NewInactivityScanner(db, daily, warnings).Scan(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d warnings\n", n)
		return nil
	},
}

func init() { rootCmd.AddCommand(scanCmd) }
