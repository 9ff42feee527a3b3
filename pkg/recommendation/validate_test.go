package recommendation

import (
	"errors"
	"testing"

	"chartcraft/internal/common/models"
)

var salesColumns = []models.Column{
	{Name: "region", Type: models.ColumnTypeText},
	{Name: "sales", Type: models.ColumnTypeInteger},
	{Name: "day", Type: models.ColumnTypeDate},
}

func TestValidateRecommendations(t *testing.T) {
	payload := `{
		"recommendedCharts": [
			{"type":"bar","title":"Sales by Region","description":"d","reasoning":"r","confidence":90,
			 "config":{"xAxis":"region","yAxis":"sales","groupBy":"region","aggregation":"sum","colors":["#fff"]}},
			{"type":"bar","title":"Too sure","description":"d","reasoning":"r","confidence":105,
			 "config":{"xAxis":"region"}},
			{"type":"radar","title":"Radar","description":"d","reasoning":"r","confidence":50,"config":{"xAxis":"region"}},
			{"type":"line","title":"Over time","description":"d","reasoning":"r","confidence":70,
			 "config":{"xAxis":"day","yAxis":"sales"}}
		],
		"insights": [
			{"type":"trend","title":"Growing","description":"Sales grow","confidence":80},
			{"type":"prophecy","title":"?","description":"?","confidence":10}
		]
	}`

	set, err := ValidateRecommendations([]byte(payload), salesColumns)
	if err != nil {
		t.Fatalf("ValidateRecommendations() error: %v", err)
	}
	if len(set.Recommendations) != 2 {
		t.Fatalf("kept %d recommendations, want 2: %+v", len(set.Recommendations), set.Recommendations)
	}
	if set.Recommendations[0].Title != "Sales by Region" || set.Recommendations[1].Title != "Over time" {
		t.Errorf("order not preserved: %+v", set.Recommendations)
	}
	first := set.Recommendations[0]
	if first.Config.Aggregation != models.AggregationSum || len(first.Config.Colors) != 1 {
		t.Errorf("config = %+v", first.Config)
	}
	if len(set.Insights) != 1 || set.Insights[0].Type != InsightTrend {
		t.Errorf("insights = %+v", set.Insights)
	}

	if len(set.Rejected) != 3 {
		t.Fatalf("rejected = %+v", set.Rejected)
	}
	for _, v := range set.Rejected {
		if !errors.Is(v, ErrSchemaViolation) {
			t.Errorf("violation %v does not match ErrSchemaViolation", v)
		}
	}
	if set.Rejected[0].Index != 1 || set.Rejected[1].Index != 2 || set.Rejected[2].Section != "insights" {
		t.Errorf("rejected = %+v", set.Rejected)
	}
}

func TestValidateRecommendationEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		ok    bool
	}{
		{"pie with groupBy", `{"type":"pie","title":"t","description":"","reasoning":"","confidence":0,"config":{"groupBy":"region"}}`, true},
		{"pie without axes", `{"type":"pie","title":"t","description":"","reasoning":"","confidence":1,"config":{}}`, false},
		{"scatter needs y", `{"type":"scatter","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":"sales"}}`, false},
		{"heatmap", `{"type":"heatmap","title":"t","description":"","reasoning":"","confidence":100,"config":{"xAxis":"region","yAxis":"day"}}`, true},
		{"histogram needs x", `{"type":"histogram","title":"t","description":"","reasoning":"","confidence":1,"config":{"yAxis":"sales"}}`, false},
		{"unknown column", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":"profit"}}`, false},
		{"blank title", `{"type":"bar","title":"  ","description":"","reasoning":"","confidence":1,"config":{"xAxis":"region"}}`, false},
		{"missing reasoning", `{"type":"bar","title":"t","description":"","confidence":1,"config":{"xAxis":"region"}}`, false},
		{"string confidence", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":"90","config":{"xAxis":"region"}}`, false},
		{"negative confidence", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":-1,"config":{"xAxis":"region"}}`, false},
		{"bad aggregation", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":"region","aggregation":"median"}}`, false},
		{"numeric axis", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":3}}`, false},
		{"bad colors", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":"region","colors":[1]}}`, false},
		{"config not object", `{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":[]}`, false},
		{"not an object", `"bar"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ValidateRecommendations([]byte(`{"recommendedCharts":[`+tt.entry+`]}`), salesColumns)
			if err != nil {
				t.Fatalf("ValidateRecommendations() error: %v", err)
			}
			if got := len(set.Recommendations) == 1; got != tt.ok {
				t.Errorf("accepted = %v, want %v (rejected %+v)", got, tt.ok, set.Rejected)
			}
		})
	}
}

func TestValidateWithoutColumnsSkipsColumnCheck(t *testing.T) {
	set, err := ValidateRecommendations([]byte(`{"recommendedCharts":[
		{"type":"bar","title":"t","description":"","reasoning":"","confidence":1,"config":{"xAxis":"anything"}}]}`), nil)
	if err != nil {
		t.Fatalf("ValidateRecommendations() error: %v", err)
	}
	if len(set.Recommendations) != 1 {
		t.Errorf("rejected = %+v", set.Rejected)
	}
}

func TestValidatePayloadShape(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`null`,
		`[]`,
		`{}`,
		`{"recommendedCharts":{}}`,
		`{"recommendedCharts":[],"insights":"none"}`,
	} {
		if _, err := ValidateRecommendations([]byte(raw), nil); !errors.Is(err, ErrSchemaViolation) {
			t.Errorf("ValidateRecommendations(%s) error = %v, want ErrSchemaViolation", raw, err)
		}
	}

	set, err := ValidateRecommendations([]byte(`{"recommendedCharts":[]}`), nil)
	if err != nil || len(set.Recommendations) != 0 || set.Insights == nil {
		t.Errorf("empty payload = %+v, %v", set, err)
	}
}

func TestRecommendationChartConfig(t *testing.T) {
	rec := Recommendation{
		Title: "T", Description: "D", Reasoning: "R", Confidence: 75,
		Config: models.ChartConfig{XAxis: "region"},
	}
	cfg := rec.ChartConfig()
	if cfg.XAxis != "region" || cfg.Title != "T" || cfg.Reasoning != "R" || cfg.Confidence == nil || *cfg.Confidence != 75 {
		t.Errorf("ChartConfig() = %+v", cfg)
	}
	if rec.Config.Title != "" {
		t.Error("ChartConfig() modified the recommendation")
	}
}
