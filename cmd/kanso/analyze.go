package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/report"
)

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a TOML habit export and print a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, v)
		},
	}

	cmd.Flags().StringP("file", "f", "", "path to the TOML habit export")
	cmd.Flags().String("today", "", "analyze as of this date (YYYY-MM-DD); overrides the export's today")
	cmd.Flags().Int("period-days", 28, "completion-rate window in days (env ANALYSIS_PERIOD_DAYS)")
	cmd.Flags().Int("weeks", 4, "weeks of history behind trends and predictions (env TREND_WEEKS)")
	cmd.Flags().Bool("compact", false, "print JSON on a single line")
	_ = cmd.MarkFlagRequired("file")

	bindFlag(v, cmd, "analysis_period_days", "period-days")
	bindFlag(v, cmd, "trend_weeks", "weeks")

	return cmd
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper) error {
	path, _ := cmd.Flags().GetString("file")
	exp, err := report.LoadExport(path)
	if err != nil {
		return err
	}

	today := exp.TodayTime()
	if raw, _ := cmd.Flags().GetString("today"); raw != "" {
		today, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", raw)
		}
	}

	var clock analytics.Clock = analytics.SystemClock
	if !today.IsZero() {
		clock = analytics.FixedClock(today)
	}

	rep, err := report.Build(analytics.NewEngine(clock), exp, report.Options{
		PeriodDays: v.GetInt("analysis_period_days"),
		Weeks:      v.GetInt("trend_weeks"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if compact, _ := cmd.Flags().GetBool("compact"); !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep)
}
