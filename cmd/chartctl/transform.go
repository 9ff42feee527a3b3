package main

import (
	"fmt"
	"os"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/transform"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	chartFile string
	xAxis     string
	yAxis     string
	groupBy   string
	agg       string
)

var transformCmd = &cobra.Command{
	Use:   "transform <file>",
	Short: "Print the chart series for a dataset file",
	Long: `Transform groups, aggregates and sorts the rows of a dataset file the
same way the server renders chart data. The chart config comes from a YAML
file (--chart) and is overridden by the axis flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := chartConfig(cmd)
		if err != nil {
			return err
		}
		t, _, err := loadTable(args[0])
		if err != nil {
			return err
		}
		series, err := transform.Transform(t.Rows, cfg)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), series)
	},
}

func chartConfig(cmd *cobra.Command) (*models.ChartConfig, error) {
	cfg := &models.ChartConfig{}
	if chartFile != "" {
		data, err := os.ReadFile(chartFile)
		if err != nil {
			return nil, fmt.Errorf("read chart config: %w", err)
		}
		if cfg, err = decodeChartYAML(data); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("x") {
		cfg.XAxis = xAxis
	}
	if f.Changed("y") {
		cfg.YAxis = yAxis
	}
	if f.Changed("group-by") {
		cfg.GroupBy = groupBy
	}
	if f.Changed("agg") {
		cfg.Aggregation = models.Aggregation(agg)
	}
	if cfg.Aggregation != "" && !cfg.Aggregation.Valid() {
		return nil, fmt.Errorf("%w: unknown aggregation %q", transform.ErrInvalidConfiguration, cfg.Aggregation)
	}
	return cfg, nil
}

// decodeChartYAML accepts either a bare config or a chart document with the
// config under a "config" key.
func decodeChartYAML(data []byte) (*models.ChartConfig, error) {
	var doc struct {
		Config *models.ChartConfig `yaml:"config"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", transform.ErrInvalidConfiguration, err)
	}
	if doc.Config != nil {
		return doc.Config, nil
	}
	var cfg models.ChartConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", transform.ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}

func init() {
	transformCmd.Flags().StringVar(&chartFile, "chart", "", "YAML chart config")
	transformCmd.Flags().StringVar(&xAxis, "x", "", "column to sort by")
	transformCmd.Flags().StringVar(&yAxis, "y", "", "column to aggregate")
	transformCmd.Flags().StringVar(&groupBy, "group-by", "", "column to group by")
	transformCmd.Flags().StringVar(&agg, "agg", "", "sum, average, count, min or max")
	rootCmd.AddCommand(transformCmd)
}
