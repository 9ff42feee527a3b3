package generate

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"chartcraft/internal/config"
	"chartcraft/internal/features/chart"
	"chartcraft/internal/features/dataset"
	"chartcraft/pkg/recommendation"

	"go.uber.org/zap"
)

type GenerateService interface {
	// Generate asks the recommender for charts on a dataset and saves the
	// valid ones.
	Generate(ctx context.Context, datasetID string) (*Result, error)
	Summary(ctx context.Context, datasetID string) ([]recommendation.ColumnSummary, error)
}

type GenerateServiceImpl struct {
	DatasetRepo  dataset.DatasetRepository
	ChartService chart.ChartService
	Recommender  recommendation.Recommender
	Logger       *zap.Logger
	SampleRows   int
}

func NewGenerateService(datasetRepo dataset.DatasetRepository, chartService chart.ChartService, recommender recommendation.Recommender, logger *zap.Logger, cfg *config.Config) GenerateService {
	return &GenerateServiceImpl{
		DatasetRepo:  datasetRepo,
		ChartService: chartService,
		Recommender:  recommender,
		Logger:       logger,
		SampleRows:   cfg.SampleRows,
	}
}

// NewRecommender builds the OpenAI-compatible client from configuration.
func NewRecommender(cfg *config.Config) recommendation.Recommender {
	return recommendation.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, time.Duration(cfg.AITimeout)*time.Second)
}

func (s *GenerateServiceImpl) Summary(ctx context.Context, datasetID string) ([]recommendation.ColumnSummary, error) {
	ds, err := s.DatasetRepo.Get(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return recommendation.BuildSummary(ds.Columns, ds.Rows), nil
}

func (s *GenerateServiceImpl) Generate(ctx context.Context, datasetID string) (*Result, error) {
	ds, err := s.DatasetRepo.Get(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	prompt, err := recommendation.BuildPrompt(recommendation.PromptInput{
		Name:       ds.Name,
		Rows:       ds.Rows,
		Summaries:  recommendation.BuildSummary(ds.Columns, ds.Rows),
		SampleRows: s.SampleRows,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.Recommender.Recommend(ctx, recommendation.Request{
		System: recommendation.SystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend charts for dataset %s: %w", ds.ID, err)
	}

	set, err := recommendation.ValidateRecommendations(raw, ds.Columns)
	if err != nil {
		return nil, err
	}
	for _, v := range set.Rejected {
		s.Logger.Warn("Dropped invalid recommendation", zap.String("datasetId", ds.ID), zap.Error(v))
	}

	charts := s.persist(ctx, ds, set.Recommendations)
	s.Logger.Info("Generated chart recommendations",
		zap.String("datasetId", ds.ID),
		zap.Int("recommended", len(set.Recommendations)),
		zap.Int("saved", len(charts)),
		zap.Int("rejected", len(set.Rejected)))

	return &Result{
		Recommendations: set.Recommendations,
		Insights:        set.Insights,
		Charts:          charts,
		Rejected:        set.Rejected,
	}, nil
}

// persist saves every recommendation concurrently. A failed save is logged
// and leaves a gap that is dropped from the result.
func (s *GenerateServiceImpl) persist(ctx context.Context, ds *dataset.Dataset, recs []recommendation.Recommendation) []*chart.Chart {
	saved := make([]*chart.Chart, len(recs))

	var wg sync.WaitGroup
	for i, rec := range recs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := &chart.Chart{
				Name:      rec.Title,
				Type:      rec.Type,
				DatasetID: ds.ID,
				Config:    rec.ChartConfig(),
				Insights:  rec.Reasoning,
			}
			if err := s.ChartService.CreateForDataset(ctx, ds.Columns, ch); err != nil {
				s.Logger.Error("Failed to save recommended chart",
					zap.String("datasetId", ds.ID),
					zap.String("title", rec.Title),
					zap.Error(fmt.Errorf("%w: %w", recommendation.ErrPersistenceFailure, err)))
				return
			}
			saved[i] = ch
		}()
	}
	wg.Wait()

	return slices.DeleteFunc(saved, func(c *chart.Chart) bool { return c == nil })
}
