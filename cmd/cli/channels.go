package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usage-report/internal/model"
	"usage-report/internal/report"
	"usage-report/internal/storage"
)

var channelOpts struct {
	csvPath       string
	from          string
	to            string
	includeEndDay bool
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Rank every channel of a log by active time",
	RunE:  runChannels,
}

func init() {
	f := channelsCmd.Flags()
	f.StringVar(&channelOpts.csvPath, "csv", "", "transition log to read (required)")
	f.StringVar(&channelOpts.from, "from", "", "start date, YYYY-MM-DD (required)")
	f.StringVar(&channelOpts.to, "to", "", "end date, YYYY-MM-DD (required)")
	f.BoolVar(&channelOpts.includeEndDay, "include-end-day", false, "count records of the whole end day (default from config)")
	for _, name := range []string{"csv", "from", "to"} {
		_ = channelsCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	includeEndDay := cfg.Report.IncludeEndDay
	if cmd.Flags().Changed("include-end-day") {
		includeEndDay = channelOpts.includeEndDay
	}

	rng, err := model.ParseTimeRange(channelOpts.from, channelOpts.to, includeEndDay)
	if err != nil {
		return err
	}

	f, err := openCSV(channelOpts.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	store := storage.NewMemoryStore(0)
	defer store.Close()
	svc := report.NewService(store, nil, zap.NewNop())

	ranked, warnings, err := svc.Channels(context.Background(), f, rng)
	if err != nil {
		return err
	}

	fmt.Printf("%-4s %-10s %-8s %-10s %-12s %-8s %-6s\n", "rank", "entry", "records", "intervals", "minutes", "util%", "peak")
	for i, u := range ranked {
		peak := "-"
		if u.PeakHour >= 0 {
			peak = fmt.Sprintf("%02dh", u.PeakHour)
		}
		fmt.Printf("%-4d %-10s %-8d %-10d %-12.2f %-8.0f %-6s\n",
			i+1, u.EntryID, u.Records, u.Intervals, u.ActiveMinutes, u.UtilizationPercent, peak)
	}
	if len(warnings) > 0 {
		fmt.Printf("\n%d malformed rows skipped\n", len(warnings))
	}
	return nil
}
