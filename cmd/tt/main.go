package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tt-go/internal/app"
	"tt-go/internal/config"
	"tt-go/internal/track"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "tt",
	Short: "Task-time tracking with deviation analysis",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Critical threshold: %.0f%%\n", cfg.Report.CriticalThresholdPercent)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:           %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:            %s\n", cfg.LogDir)
		fmt.Printf("Database:           %s\n", cfg.Database.Type)
		fmt.Printf("Archive:            %s\n", cfg.Archive.Type)
		fmt.Printf("Critical threshold: %.0f%%\n", cfg.Report.CriticalThresholdPercent)
		alertState := cfg.Alert.Type
		if cfg.Alert.Type == "webhook" && cfg.Alert.WebhookURL == "" {
			alertState = "webhook (no credential set)"
		}
		fmt.Printf("Alerts:             %s\n", alertState)
		return nil
	},
}

var configSetWebhookCmd = &cobra.Command{
	Use:   "set-webhook",
	Short: "Set the alert webhook URL",
	Long:  "Stores the incoming-webhook URL used for critical-deviation alerts.\nThe URL is a credential and is read without echo.",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Print("Webhook URL: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading webhook URL: %w", err)
		}

		url := strings.TrimSpace(string(raw))
		if url == "" {
			return fmt.Errorf("webhook URL is empty")
		}

		cfg.Alert.Type = "webhook"
		cfg.Alert.WebhookURL = url
		if err := config.WriteToFile(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println("Webhook configured. Critical deviations will be dispatched.")
		return nil
	},
}

// submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record time spent on a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		employee, _ := cmd.Flags().GetString("employee")
		task, _ := cmd.Flags().GetString("task")
		actual, _ := cmd.Flags().GetFloat64("actual")
		baseline, _ := cmd.Flags().GetFloat64("baseline")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		outcome, err := a.Submit(employee, task, actual, baseline)
		if err != nil {
			if track.IsValidation(err) {
				return fmt.Errorf("invalid submission: %w", err)
			}
			return fmt.Errorf("submission failed: %w", err)
		}

		r := outcome.Result
		fmt.Printf("Recorded %.1f min for %s on %q (baseline %.1f min, %+.1f%%, %s)\n",
			r.Record.ActualMinutes, r.EmployeeName, r.TaskName,
			r.Record.BaselineMinutes, r.Deviation.Percent, r.Deviation.Category)

		if r.TaskCreated {
			fmt.Printf("New task %q defined with a baseline of %.1f min\n", r.TaskName, r.Record.BaselineMinutes)
		}
		if r.BaselineUpdated {
			fmt.Printf("Baseline for %q updated to %.1f min\n", r.TaskName, r.Record.BaselineMinutes)
		}

		switch {
		case outcome.AlertWarning != "":
			fmt.Printf("Warning: %s (record committed)\n", outcome.AlertWarning)
		case outcome.AlertAttempted && outcome.AlertDelivered:
			fmt.Println("Critical deviation alert dispatched.")
		}
		return nil
	},
}

// records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List all time records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.Records()
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No records.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%s  %-20s  %-20s  %6.1f/%6.1f min  %+6.1f%%  %s\n",
				r.RecordedAt.Format("2006-01-02 15:04"),
				r.Employee, r.Task,
				r.ActualMinutes, r.BaselineMinutes,
				r.Deviation.Percent, r.Deviation.Category)
		}
		return nil
	},
}

// tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List task definitions and their baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		tasks, err := a.Tasks()
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks defined.")
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%-30s  baseline %6.1f min  (updated %s)\n",
				t.Name, t.BaselineMinutes, t.UpdatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the per-task performance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Export("summary", os.Stdout)
	},
}

// timeline command
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show per-employee task intervals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Timeline()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No records to show.")
			return nil
		}

		for _, e := range entries {
			marker := " "
			switch e.Category {
			case track.CategoryCritical:
				marker = "!"
			case track.CategoryLate:
				marker = "+"
			case track.CategoryEarly:
				marker = "-"
			}
			fmt.Printf("%s %s .. %s  %-20s  %s\n",
				marker,
				e.Start.Format("2006-01-02 15:04"),
				e.End.Format("15:04"),
				e.Employee, e.Task)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records as a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		toArchive, _ := cmd.Flags().GetBool("archive")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if toArchive {
			name, err := a.ExportToArchive(format)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Report archived as %s\n", name)
			return nil
		}

		return a.Export(format, os.Stdout)
	},
}

// reports command (archive access)
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage archived reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.ArchivedReports()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No archived reports.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print an archived report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.FetchArchivedReport(args[0], os.Stdout)
	},
}

// wipe command
var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all employees, tasks, and records",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("refusing to wipe without --yes")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		start := time.Now()
		if err := a.Wipe(); err != nil {
			return fmt.Errorf("wipe failed, no data was removed: %w", err)
		}

		fmt.Printf("All data wiped in %s\n", time.Since(start).Truncate(time.Millisecond))
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetWebhookCmd)

	// reports subcommands
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsGetCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringP("employee", "e", "", "Employee name (required)")
	submitCmd.Flags().StringP("task", "t", "", "Task name (required)")
	submitCmd.Flags().Float64P("actual", "a", 0, "Actual duration in minutes (required)")
	submitCmd.Flags().Float64P("baseline", "b", 0, "Baseline in minutes (required for new tasks, overwrites existing)")
	submitCmd.MarkFlagRequired("employee")
	submitCmd.MarkFlagRequired("task")
	submitCmd.MarkFlagRequired("actual")
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "csv", "Export format: csv, summary")
	exportCmd.Flags().Bool("archive", false, "Store the report in the configured archive instead of stdout")
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(wipeCmd)
	wipeCmd.Flags().Bool("yes", false, "Confirm deletion of all data")
}
