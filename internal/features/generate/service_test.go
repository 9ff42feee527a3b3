package generate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"chartcraft/internal/common/models"
	"chartcraft/internal/config"
	"chartcraft/internal/database"
	"chartcraft/internal/events"
	"chartcraft/internal/features/chart"
	"chartcraft/internal/features/dataset"
	"chartcraft/pkg/recommendation"

	"go.uber.org/zap"
)

type fakeRecommender struct {
	mu      sync.Mutex
	payload string
	err     error
	prompts []recommendation.Request
}

func (f *fakeRecommender) Recommend(ctx context.Context, req recommendation.Request) (recommendation.RawPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req)
	if f.err != nil {
		return nil, f.err
	}
	return recommendation.RawPayload(f.payload), nil
}

// failingCharts refuses to save charts with the given title.
type failingCharts struct {
	chart.ChartService
	title string
}

func (f *failingCharts) CreateForDataset(ctx context.Context, columns []models.Column, ch *chart.Chart) error {
	if ch.Name == f.title {
		return errors.New("write conflict")
	}
	return f.ChartService.CreateForDataset(ctx, columns, ch)
}

const twoCharts = `{
	"recommendedCharts": [
		{"type":"bar","title":"Sales by Region","description":"Totals","reasoning":"Compare regions","confidence":92,
		 "config":{"xAxis":"region","yAxis":"sales","groupBy":"region","aggregation":"sum"}},
		{"type":"pie","title":"Share","description":"Split","reasoning":"Parts of a whole","confidence":105,
		 "config":{"groupBy":"region"}},
		{"type":"pie","title":"Region Share","description":"Split","reasoning":"Parts of a whole","confidence":60,
		 "config":{"groupBy":"region","yAxis":"sales","aggregation":"sum"}}
	],
	"insights": [{"type":"summary","title":"Two regions","description":"N leads","confidence":70}]
}`

type fixture struct {
	svc    *GenerateServiceImpl
	charts chart.ChartService
	rec    *fakeRecommender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemoryStore()
	datasets := dataset.NewDatasetRepository(store)
	err := datasets.Create(context.Background(), &dataset.Dataset{
		ID:   "ds1",
		Name: "Sales",
		Rows: []models.Row{
			{"region": "N", "sales": 10.0},
			{"region": "S", "sales": 7.0},
		},
		Columns: []models.Column{
			{Name: "region", DisplayName: "Region", Type: models.ColumnTypeText},
			{Name: "sales", DisplayName: "Sales", Type: models.ColumnTypeInteger},
		},
		RowCount:    2,
		ColumnCount: 2,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}

	charts := chart.NewChartService(chart.NewChartRepository(store), datasets, events.NewHub(), zap.NewNop(), &config.Config{})
	rec := &fakeRecommender{payload: twoCharts}
	return &fixture{
		svc: &GenerateServiceImpl{
			DatasetRepo:  datasets,
			ChartService: charts,
			Recommender:  rec,
			Logger:       zap.NewNop(),
			SampleRows:   5,
		},
		charts: charts,
		rec:    rec,
	}
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Generate(ctx, "ds1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(res.Recommendations) != 2 || len(res.Rejected) != 1 || len(res.Insights) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Charts) != 2 {
		t.Fatalf("saved %d charts, want 2", len(res.Charts))
	}
	if res.Charts[0].Name != "Sales by Region" || res.Charts[1].Name != "Region Share" {
		t.Errorf("charts out of recommendation order: %s, %s", res.Charts[0].Name, res.Charts[1].Name)
	}

	saved, err := f.charts.GetChart(ctx, res.Charts[0].ID)
	if err != nil {
		t.Fatalf("GetChart() error: %v", err)
	}
	if saved.Insights != "Compare regions" || saved.Config.Title != "Sales by Region" ||
		saved.Config.Confidence == nil || *saved.Config.Confidence != 92 {
		t.Errorf("saved chart = %+v", saved)
	}

	req := f.rec.prompts[0]
	if req.System != recommendation.SystemPrompt || !strings.Contains(req.Prompt, "- Region (region): text - 2 unique values") {
		t.Errorf("prompt = %q", req.Prompt)
	}
}

func TestGeneratePartialPersistence(t *testing.T) {
	f := newFixture(t)
	f.svc.ChartService = &failingCharts{ChartService: f.charts, title: "Sales by Region"}

	res, err := f.svc.Generate(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("Generate() error = %v, want partial success", err)
	}
	if len(res.Recommendations) != 2 {
		t.Errorf("recommendations = %d, want 2", len(res.Recommendations))
	}
	if len(res.Charts) != 1 || res.Charts[0].Name != "Region Share" {
		t.Errorf("charts = %+v", res.Charts)
	}

	listed, _ := f.charts.ListCharts(context.Background(), 10, "ds1")
	if len(listed) != 1 {
		t.Errorf("stored %d charts, want 1", len(listed))
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		dataset string
		payload string
		recErr  error
		want    error
	}{
		{"missing dataset", "nope", twoCharts, nil, database.ErrNotFound},
		{"not configured", "ds1", "", recommendation.ErrNotConfigured, recommendation.ErrNotConfigured},
		{"bad payload", "ds1", `{"charts":[]}`, nil, recommendation.ErrSchemaViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.rec.payload = tt.payload
			f.rec.err = tt.recErr
			if _, err := f.svc.Generate(context.Background(), tt.dataset); !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Summary(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if len(got) != 2 || got[1].Summary != "Range: 7 to 10, Average: 8.50" {
		t.Errorf("Summary() = %+v", got)
	}
	if _, err := f.svc.Summary(context.Background(), "nope"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Summary(nope) error = %v", err)
	}
}
