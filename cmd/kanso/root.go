package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comitanigiacomo/kanso-analytics/internal/config"
)

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:           "kanso",
		Short:         "Offline habit analytics",
		Long:          "kanso computes streaks, completion rates and persistence predictions from a TOML habit export.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnalyzeCmd(v))
	return root
}

// bindFlag makes a flag override the config key of the same meaning.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
}
