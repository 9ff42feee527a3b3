package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/transform"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDecodeChartYAML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.ChartConfig
	}{
		{
			name: "bare config",
			in:   "xAxis: region\nyAxis: sales\ngroupBy: region\naggregation: sum\n",
			want: models.ChartConfig{XAxis: "region", YAxis: "sales", GroupBy: "region", Aggregation: models.AggregationSum},
		},
		{
			name: "chart document",
			in:   "name: Sales\ntype: bar\nconfig:\n  yAxis: sales\n  groupBy: region\n  aggregation: average\n",
			want: models.ChartConfig{YAxis: "sales", GroupBy: "region", Aggregation: models.AggregationAverage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeChartYAML([]byte(tt.in))
			if err != nil {
				t.Fatalf("decodeChartYAML() error: %v", err)
			}
			if got.XAxis != tt.want.XAxis || got.YAxis != tt.want.YAxis ||
				got.GroupBy != tt.want.GroupBy || got.Aggregation != tt.want.Aggregation {
				t.Errorf("decodeChartYAML() = %+v, want %+v", *got, tt.want)
			}
		})
	}

	if _, err := decodeChartYAML([]byte("xAxis: [1")); !errors.Is(err, transform.ErrInvalidConfiguration) {
		t.Errorf("broken YAML error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestTransformCommand(t *testing.T) {
	data := writeFile(t, "sales.csv", "region,sales\nS,7\nN,10\nN,5\n")
	chart := writeFile(t, "chart.yaml", "config:\n  yAxis: sales\n  groupBy: region\n  aggregation: sum\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"transform", data, "--chart", chart, "--x", "region"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("transform error: %v", err)
	}

	var series []map[string]any
	if err := json.Unmarshal(out.Bytes(), &series); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2: %s", len(series), out.String())
	}
	if series[0]["region"] != "N" || series[0]["sales"] != 15.0 || series[0]["count"] != 2.0 {
		t.Errorf("first point = %v", series[0])
	}
	if series[1]["region"] != "S" || series[1]["sales"] != 7.0 {
		t.Errorf("second point = %v", series[1])
	}
}

func TestLoadTableUsesFileName(t *testing.T) {
	path := writeFile(t, "q3 orders.json", `[{"id": 1, "paid": true}]`)
	tbl, name, err := loadTable(path)
	if err != nil {
		t.Fatalf("loadTable() error: %v", err)
	}
	if name != "q3 orders" {
		t.Errorf("name = %q", name)
	}
	if len(tbl.Rows) != 1 || len(tbl.Columns) != 2 {
		t.Errorf("table = %+v", tbl)
	}

	if _, _, err := loadTable(writeFile(t, "notes.md", "# hi")); err == nil || !strings.Contains(err.Error(), "notes.md") {
		t.Errorf("unsupported file error = %v", err)
	}
}
