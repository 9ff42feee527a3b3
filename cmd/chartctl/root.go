package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "chartctl",
	Short: "Inspect datasets and preview chart series offline",
	Long: `chartctl runs the chartcraft parsing, typing and transform pipeline
against local files, without a server or store.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./chartctl.yaml)")
	rootCmd.PersistentFlags().Int("sample-rows", 10, "rows embedded in generated prompts")
	rootCmd.PersistentFlags().String("jwt-secret", "secret", "secret used to sign tokens")
	_ = v.BindPFlag("sample_rows", rootCmd.PersistentFlags().Lookup("sample-rows"))
	_ = v.BindPFlag("jwt_secret", rootCmd.PersistentFlags().Lookup("jwt-secret"))
}

// loadConfig reads CHARTCTL_* env vars and an optional YAML file.
// Precedence: flags > env > config file > defaults.
func loadConfig() {
	v.SetEnvPrefix("CHARTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("chartctl")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}
