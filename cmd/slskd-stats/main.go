// slskd-stats summarizes transfer history from slskd databases and exported
// HTML pages, as a text report or an interactive terminal dashboard.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Player6734/slskd-stats/internal/config"
	"github.com/Player6734/slskd-stats/internal/report"
	"github.com/Player6734/slskd-stats/internal/source"
	"github.com/Player6734/slskd-stats/internal/stats"
	"github.com/Player6734/slskd-stats/internal/tui"
)

var (
	configPath string
	dbPaths    []string
	htmlPaths  []string
	logLevel   string

	lastDays   int
	lastMonths int
	lastYears  int
	fromDate   string
	toDate     string
	topN       int
	bucketName string
	uploads    bool
	downloads  bool
	all        bool
	outputJSON bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slskd-stats",
		Short: "slskd transfer statistics analyzer",
		Long: `slskd-stats summarizes file-transfer history produced by a slskd daemon.
It reads transfers databases (both schema generations) and exported uploads
HTML pages, and reports totals, per-user rankings, file-type breakdowns and
time-bucketed trends.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringArrayVar(&dbPaths, "db", nil, "Path to a transfers.db file (can be specified multiple times)")
	rootCmd.PersistentFlags().StringArrayVar(&htmlPaths, "html", nil, "Path to an exported uploads HTML page (can be specified multiple times)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print a transfer statistics report",
		RunE:  runReport,
	}
	reportCmd.Flags().IntVar(&lastDays, "days", 0, "Only analyze transfers from the last N days")
	reportCmd.Flags().IntVar(&lastMonths, "months", 0, "Only analyze transfers from the last N months")
	reportCmd.Flags().IntVar(&lastYears, "years", 0, "Only analyze transfers from the last N years")
	reportCmd.Flags().StringVar(&fromDate, "from", "", "Start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&toDate, "to", "", "End date (YYYY-MM-DD)")
	reportCmd.Flags().IntVar(&topN, "top", 0, "Show top N entries in each category")
	reportCmd.Flags().StringVar(&bucketName, "bucket", "", "Trend bucket unit (day, month)")
	reportCmd.Flags().BoolVar(&uploads, "uploads", false, "Show only upload statistics")
	reportCmd.Flags().BoolVar(&downloads, "downloads", false, "Show only download statistics")
	reportCmd.Flags().BoolVar(&all, "all", false, "Show both upload and download statistics (default)")
	reportCmd.Flags().BoolVar(&outputJSON, "json", false, "Output the full result in JSON format")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive dashboard",
		RunE:  runTUI,
	}
	tuiCmd.Flags().IntVar(&topN, "top", 0, "Show top N entries in each category")
	tuiCmd.Flags().StringVar(&bucketName, "bucket", "", "Trend bucket unit (day, month)")

	rootCmd.AddCommand(reportCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with flag overrides and resolves which
// source files to analyze.
func loadConfig() (*config.Config, error) {
	path := configPath
	cfg, err := config.Load(pathOrDefault(path))
	if err != nil {
		if path != "" {
			// An explicitly requested config file must exist.
			return nil, err
		}
		cfg = config.Defaults()
	}

	if len(dbPaths) > 0 {
		cfg.Databases = dbPaths
	}
	if len(htmlPaths) > 0 {
		cfg.HTMLPages = htmlPaths
	}
	if topN > 0 {
		cfg.TopN = topN
	}
	if bucketName != "" {
		cfg.Bucket = bucketName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Fall back to a transfers.db in the working directory.
	if len(cfg.Databases) == 0 && len(cfg.HTMLPages) == 0 {
		if _, err := os.Stat("transfers.db"); err == nil {
			cfg.Databases = []string{"transfers.db"}
		}
	}
	if len(cfg.Databases) == 0 && len(cfg.HTMLPages) == 0 {
		return nil, fmt.Errorf("no source files: specify --db or --html, or place transfers.db in the working directory")
	}

	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func pathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return config.DefaultConfigPath
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}

func bucketUnit(name string) (stats.BucketUnit, error) {
	switch name {
	case "", "day":
		return stats.BucketDay, nil
	case "month":
		return stats.BucketMonth, nil
	default:
		return stats.BucketDay, fmt.Errorf("invalid bucket unit %q: must be day or month", name)
	}
}

// window resolves the time-filter flags, most specific first.
func window() (stats.Window, error) {
	switch {
	case lastDays > 0:
		return stats.Window{Kind: stats.LastNDays, N: lastDays}, nil
	case lastMonths > 0:
		return stats.Window{Kind: stats.LastNMonths, N: lastMonths}, nil
	case lastYears > 0:
		return stats.Window{Kind: stats.LastNYears, N: lastYears}, nil
	case fromDate != "" || toDate != "":
		if fromDate == "" || toDate == "" {
			return stats.Window{}, fmt.Errorf("--from and --to must be specified together")
		}
		start, err := time.ParseInLocation("2006-01-02", fromDate, time.Local)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --from date: %w", err)
		}
		end, err := time.ParseInLocation("2006-01-02", toDate, time.Local)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --to date: %w", err)
		}
		// Include the whole end day.
		end = end.Add(24*time.Hour - time.Second)
		return stats.Window{Kind: stats.ExplicitRange, Start: start, End: end}, nil
	default:
		return stats.Window{Kind: stats.AllTime}, nil
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bucket, err := bucketUnit(cfg.Bucket)
	if err != nil {
		return err
	}
	win, err := window()
	if err != nil {
		return err
	}

	rows, warnings, err := source.Load(cfg.Databases, cfg.HTMLPages)
	if err != nil {
		return err
	}

	result := stats.BuildReport(rows, stats.Options{
		Window:   win,
		TopK:     cfg.TopN,
		Bucket:   bucket,
		Warnings: warnings,
	})

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	showUploads := true
	showDownloads := true
	if uploads && !downloads && !all {
		showDownloads = false
	} else if downloads && !uploads && !all {
		showUploads = false
	}

	fmt.Print(report.Render(result, showUploads, showDownloads))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bucket, err := bucketUnit(cfg.Bucket)
	if err != nil {
		return err
	}

	model := tui.New(cfg.Databases, cfg.HTMLPages, cfg.TopN, bucket)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
