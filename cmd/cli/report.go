package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usage-report/internal/app"
	"usage-report/internal/logging"
	"usage-report/internal/model"
	"usage-report/internal/report"
	"usage-report/internal/storage"
	"usage-report/internal/usage"
)

var reportOpts struct {
	csvPath       string
	entry         string
	from          string
	to            string
	powerCV       float64
	price         float64
	includeEndDay bool
	pdfPath       string
	pngPath       string
	hourlyPath    string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the hourly usage chart of one channel",
	Long: `Aggregates the active time of one channel over [--from, --to] and writes the chart
as PDF (and optionally PNG), plus an optional hourly CSV table.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.csvPath, "csv", "", "transition log to read (required)")
	f.StringVar(&reportOpts.entry, "entry", "", "entry (channel) number to report on (required)")
	f.StringVar(&reportOpts.from, "from", "", "start date, YYYY-MM-DD (required)")
	f.StringVar(&reportOpts.to, "to", "", "end date, YYYY-MM-DD (required)")
	f.Float64Var(&reportOpts.powerCV, "power-cv", 0, "motor power in CV (default from config)")
	f.Float64Var(&reportOpts.price, "price", 0, "price per kWh (default from config)")
	f.BoolVar(&reportOpts.includeEndDay, "include-end-day", false, "count records of the whole end day (default from config)")
	f.StringVar(&reportOpts.pdfPath, "pdf", "grafico.pdf", "output PDF path")
	f.StringVar(&reportOpts.pngPath, "png", "", "optional PNG preview path")
	f.StringVar(&reportOpts.hourlyPath, "hourly-csv", "", "optional hourly CSV path")
	for _, name := range []string{"csv", "entry", "from", "to"} {
		_ = reportCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	motor := cfg.Report.Motor
	if cmd.Flags().Changed("power-cv") {
		motor.PowerCV = reportOpts.powerCV
	}
	tariff := cfg.Report.Tariff
	if cmd.Flags().Changed("price") {
		tariff.PricePerKWh = reportOpts.price
	}
	includeEndDay := cfg.Report.IncludeEndDay
	if cmd.Flags().Changed("include-end-day") {
		includeEndDay = reportOpts.includeEndDay
	}

	rng, err := model.ParseTimeRange(reportOpts.from, reportOpts.to, includeEndDay)
	if err != nil {
		return err
	}

	f, err := openCSV(reportOpts.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	logger, err := logging.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store := storage.NewMemoryStore(0)
	defer store.Close()
	svc := report.NewService(store, app.NewRenderer(cfg.Report), logger)

	res, err := svc.Generate(context.Background(), report.Request{
		CSV:     f,
		EntryID: reportOpts.entry,
		Range:   rng,
		Motor:   motor,
		Tariff:  tariff,
	})
	if err != nil {
		return err
	}
	a := res.Artifact

	if err := writeOutput(reportOpts.pdfPath, a.PDF); err != nil {
		return err
	}
	if reportOpts.pngPath != "" {
		if err := writeOutput(reportOpts.pngPath, a.PNG); err != nil {
			return err
		}
	}
	if reportOpts.hourlyPath != "" {
		if err := ensureDir(reportOpts.hourlyPath); err != nil {
			return err
		}
		if err := usage.SaveHourlyCSV(reportOpts.hourlyPath, a.Hourly); err != nil {
			return fmt.Errorf("writing hourly CSV: %w", err)
		}
		fmt.Printf("Wrote 24 rows to %s\n", reportOpts.hourlyPath)
	}

	printReport(a)
	for _, w := range a.Warnings {
		logger.Warn("skipped row", zap.String("detail", w))
	}
	return nil
}

func printReport(a *storage.Artifact) {
	fmt.Printf("\nEntry %s, %s to %s\n", a.EntryID,
		a.Range.Start.Format("2006-01-02 15:04:05"), a.Range.End.Format("2006-01-02 15:04:05"))
	fmt.Println("----------------------------------------")
	fmt.Printf("%-6s  %10s\n", "Hour", "Minutes")
	fmt.Println("----------------------------------------")
	for hour, d := range a.Hourly {
		fmt.Printf("%-6d  %10.2f\n", hour, d.Minutes())
	}
	fmt.Println("----------------------------------------")
	fmt.Println(usage.Annotation(a.Summary))
	if a.Pairing.OrphanOffs > 0 || a.Pairing.OverwrittenOns > 0 || a.Pairing.OpenAtEnd {
		fmt.Printf("(ignored: %d OFF without ON, %d repeated ON, open at end: %v)\n",
			a.Pairing.OrphanOffs, a.Pairing.OverwrittenOns, a.Pairing.OpenAtEnd)
	}
	if n := len(a.Warnings); n > 0 {
		fmt.Printf("%d malformed rows skipped\n", n)
	}
}

func openCSV(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.NewError(model.KindIO, "CSV file not found", err)
		}
		return nil, model.NewError(model.KindIO, "failed to open CSV file", err)
	}
	return f, nil
}

func writeOutput(path string, content []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(content))))
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
